// Package export publishes prerendered pages to object storage.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/weft-dev/weft/pkg/render"
)

// ErrNoBucket is returned when a publisher is created without a bucket.
var ErrNoBucket = errors.New("export: bucket is required")

// ObjectPutter is the subset of the S3 client a publisher needs.
// *s3.Client satisfies it; tests supply in-memory implementations.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds publisher settings.
type Config struct {
	// Prefix is prepended to every object key.
	Prefix string

	// CacheControl is set on every published object.
	// Default: "public, max-age=60".
	CacheControl string

	// Renderer renders pages to markup. Default: render.New().
	Renderer *render.Renderer

	// Logger receives per-object publish logs. Default: slog.Default.
	Logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Config)

// WithPrefix sets the object key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Config) { c.Prefix = prefix }
}

// WithCacheControl sets the Cache-Control header on published objects.
func WithCacheControl(cc string) Option {
	return func(c *Config) { c.CacheControl = cc }
}

// WithRenderer sets the page renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Config) { c.Renderer = r }
}

// WithLogger sets the publish logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Publisher writes rendered pages into an S3 bucket so they can be
// served as a static site in front of the live endpoint.
type Publisher struct {
	client ObjectPutter
	bucket string
	cfg    Config
}

// NewPublisher creates a publisher for the given bucket.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	pub, _ := export.NewPublisher(s3.NewFromConfig(cfg), "my-site")
func NewPublisher(client ObjectPutter, bucket string, opts ...Option) (*Publisher, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	cfg := Config{CacheControl: "public, max-age=60"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Publisher{client: client, bucket: bucket, cfg: cfg}, nil
}

// PublishPage renders the page and writes it at the object key derived
// from the route path.
func (p *Publisher) PublishPage(ctx context.Context, route string, page render.Page) error {
	markup, err := p.cfg.Renderer.RenderPageToString(page)
	if err != nil {
		return fmt.Errorf("export: render %s: %w", route, err)
	}
	return p.PublishObject(ctx, RouteKey(route), markup, "text/html; charset=utf-8")
}

// PublishObject writes raw content at the given key under the prefix.
func (p *Publisher) PublishObject(ctx context.Context, key, body, contentType string) error {
	fullKey := p.cfg.Prefix + key
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(fullKey),
		Body:         strings.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(p.cfg.CacheControl),
		Metadata: map[string]string{
			"published-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("export: put %s: %w", fullKey, err)
	}
	p.cfg.Logger.Info("published", "bucket", p.bucket, "key", fullKey, "bytes", len(body))
	return nil
}

// PublishSite renders and publishes every route in sorted path order.
// The first failure aborts the export.
func (p *Publisher) PublishSite(ctx context.Context, routes map[string]render.Page) error {
	paths := make([]string, 0, len(routes))
	for route := range routes {
		paths = append(paths, route)
	}
	sort.Strings(paths)
	for _, route := range paths {
		if err := p.PublishPage(ctx, route, routes[route]); err != nil {
			return err
		}
	}
	return nil
}

// RouteKey maps a route path to an object key: "/" becomes
// "index.html", "/about" becomes "about/index.html", and a path that
// already names a file keeps its name.
func RouteKey(route string) string {
	route = strings.TrimPrefix(route, "/")
	if route == "" {
		return "index.html"
	}
	if strings.Contains(route[strings.LastIndex(route, "/")+1:], ".") {
		return route
	}
	return strings.TrimSuffix(route, "/") + "/index.html"
}
