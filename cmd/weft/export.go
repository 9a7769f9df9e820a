package main

import (
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/weft-dev/weft/internal/config"
	"github.com/weft-dev/weft/pkg/export"
	"github.com/weft-dev/weft/pkg/render"
)

func exportCmd() *cobra.Command {
	var (
		bucket string
		prefix string
		region string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Publish prerendered pages to S3",
		Long: `Render the app and publish the pages to an S3 bucket so
they can be served statically in front of the live endpoint.

Credentials come from the default AWS credential chain.

Examples:
  weft export --bucket=my-site
  weft export --bucket=my-site --prefix=staging/ --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromWorkingDir()
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Export.Bucket = bucket
			}
			if prefix != "" {
				cfg.Export.Prefix = prefix
			}
			if region != "" {
				cfg.Export.Region = region
			}
			if cfg.Export.Bucket == "" {
				return fmt.Errorf("export: bucket is required (flag --bucket or weft.json)")
			}
			return runExport(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket to publish to")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Object key prefix")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region override")

	return cmd
}

func runExport(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Export.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Export.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("export: load aws config: %w", err)
	}

	pubOpts := []export.Option{
		export.WithPrefix(cfg.Export.Prefix),
		export.WithRenderer(render.New(render.WithLiveEndpoint(cfg.Server.LivePath))),
	}
	if cfg.Export.CacheControl != "" {
		pubOpts = append(pubOpts, export.WithCacheControl(cfg.Export.CacheControl))
	}
	pub, err := export.NewPublisher(s3.NewFromConfig(awsCfg), cfg.Export.Bucket, pubOpts...)
	if err != nil {
		return err
	}

	tree := demoApp()
	tree.SetAttribute("id", cfg.Server.MountID)
	routes := map[string]render.Page{
		"/": {Title: cfg.Server.Title, Body: tree},
	}
	return pub.PublishSite(ctx, routes)
}
