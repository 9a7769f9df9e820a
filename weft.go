// Package weft glues declarative element trees to live documents: mounting,
// hydration, head mounting, and the handles that own a mounted subtree's
// reactive resources.
package weft

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/weft-dev/weft/pkg/dom"
	"github.com/weft-dev/weft/pkg/reactive"
)

var (
	// ErrMountPointNotFound reports that the requested mount point id does
	// not exist in the document.
	ErrMountPointNotFound = errors.New("weft: mount point not found")

	// ErrNoHead reports that the document has no head element.
	ErrNoHead = errors.New("weft: document has no head element")

	// ErrMarkupOnly reports an attempt to mount a markup-only tree, which
	// cannot acquire a live backing.
	ErrMarkupOnly = errors.New("weft: markup-only trees cannot be mounted")
)

type mountKey struct {
	doc *dom.Document
	id  string
}

var mounts = struct {
	mu    sync.Mutex
	byKey map[mountKey]*MountHandle
	heads map[mountKey]*HeadHandle
}{
	byKey: make(map[mountKey]*MountHandle),
	heads: make(map[mountKey]*HeadHandle),
}

// MountConfig carries optional mount parameters.
type MountConfig struct {
	// Owner is the reactive scope that will own the subtree's resources.
	// A fresh root Owner is created if nil.
	Owner *reactive.Owner

	// Queue is the deferred-work queue for the subtree. A fresh Queue is
	// created if nil.
	Queue *reactive.Queue
}

// MountOption configures a mount.
type MountOption func(*MountConfig)

// WithOwner mounts under an existing reactive scope.
func WithOwner(o *reactive.Owner) MountOption {
	return func(c *MountConfig) { c.Owner = o }
}

// WithQueue mounts with an existing deferred-work queue.
func WithQueue(q *reactive.Queue) MountOption {
	return func(c *MountConfig) { c.Queue = q }
}

// MountHandle represents one mounted subtree. Dropping the handle via
// Unmount cancels any still-pending hydration and disposes the subtree's
// reactive resources; mutations already applied to the document stay.
type MountHandle struct {
	key   mountKey
	root  dom.LiveNode
	owner *reactive.Owner
	queue *reactive.Queue

	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	stats dom.HydrationStats
	err   error
}

// Owner returns the reactive scope owning the mounted subtree.
func (h *MountHandle) Owner() *reactive.Owner { return h.owner }

// Queue returns the subtree's deferred-work queue. The host binding flushes
// it once per update cycle.
func (h *MountHandle) Queue() *reactive.Queue { return h.queue }

// Root returns the live root of the mounted subtree. For a hydrating mount
// it is nil until hydration completes.
func (h *MountHandle) Root() dom.LiveNode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.root
}

// Wait blocks until the mount is ready. For hydrating mounts that means
// every descendant has transitioned to live; for direct mounts it returns
// immediately. The returned stats are zero for direct mounts.
func (h *MountHandle) Wait(ctx context.Context) (dom.HydrationStats, error) {
	select {
	case <-h.done:
	case <-ctx.Done():
		return dom.HydrationStats{}, ctx.Err()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats, h.err
}

// Unmount cancels pending hydration, disposes the subtree's reactive
// resources, removes the live root from its parent, and drops the handle
// from the mount registry.
func (h *MountHandle) Unmount() {
	if h.cancel != nil {
		h.cancel()
	}
	h.owner.Dispose()

	h.mu.Lock()
	root := h.root
	h.root = nil
	h.mu.Unlock()

	if root != nil {
		if p := root.ParentElement(); p != nil {
			p.RemoveChild(root)
		}
	}

	mounts.mu.Lock()
	if mounts.byKey[h.key] == h {
		delete(mounts.byKey, h.key)
	}
	mounts.mu.Unlock()
}

func newHandle(key mountKey, cfg MountConfig) *MountHandle {
	h := &MountHandle{
		key:   key,
		owner: cfg.Owner,
		queue: cfg.Queue,
		done:  make(chan struct{}),
	}
	if h.owner == nil {
		h.owner = reactive.NewOwner(nil)
	}
	if h.queue == nil {
		h.queue = reactive.NewQueue()
	}
	return h
}

func applyOptions(opts []MountOption) MountConfig {
	var cfg MountConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Mount replaces the document element with the given id by the root of
// tree. Live trees attach as-is; hydratable trees are materialized fresh
// into the document first. Markup-only trees return ErrMarkupOnly.
func Mount(doc *dom.Document, id string, tree dom.Node, opts ...MountOption) (*MountHandle, error) {
	mp := doc.GetElementByID(id)
	if mp == nil {
		return nil, fmt.Errorf("%w: no element with id %q", ErrMountPointNotFound, id)
	}

	root := tree.LiveNode()
	if root == nil {
		if tree.Mode() == dom.ModeMarkup {
			return nil, fmt.Errorf("%w: id %q", ErrMarkupOnly, id)
		}
		root = dom.Materialize(doc, tree)
	}

	parent := mp.ParentElement()
	if parent == nil {
		return nil, fmt.Errorf("%w: element with id %q has no parent", ErrMountPointNotFound, id)
	}
	parent.InsertBefore(root, mp)
	parent.RemoveChild(mp)

	h := newHandle(mountKey{doc: doc, id: id}, applyOptions(opts))
	h.root = root
	close(h.done)

	mounts.mu.Lock()
	mounts.byKey[h.key] = h
	mounts.mu.Unlock()
	return h, nil
}

// Hydrate attaches tree to the existing subtree rooted at the element with
// the given id, reusing served markup where it matches and rebuilding where
// it does not. The walk runs as an asynchronous task; use Wait on the
// returned handle for the match statistics. Cancelling ctx cancels a
// hydration that has not started; mutations already applied stay.
func Hydrate(ctx context.Context, doc *dom.Document, id string, tree *dom.Element, opts ...MountOption) (*MountHandle, error) {
	mp := doc.GetElementByID(id)
	if mp == nil {
		return nil, fmt.Errorf("%w: no element with id %q", ErrMountPointNotFound, id)
	}
	if tree.Mode() == dom.ModeMarkup {
		return nil, fmt.Errorf("%w: id %q", ErrMarkupOnly, id)
	}

	hctx, cancel := context.WithCancel(ctx)
	h := newHandle(mountKey{doc: doc, id: id}, applyOptions(opts))
	h.cancel = cancel

	mounts.mu.Lock()
	mounts.byKey[h.key] = h
	mounts.mu.Unlock()

	go func() {
		defer close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		// Hydration is all-or-nothing per subtree: once started it runs
		// to completion, so cancellation is only honored before the walk.
		if err := hctx.Err(); err != nil {
			h.err = err
			return
		}

		var stats dom.HydrationStats
		h.root = tree.Hydrate(mp, &stats)
		h.stats = stats
	}()

	return h, nil
}

// HeadHandle represents content mounted into the document head.
type HeadHandle struct {
	key   mountKey
	nodes []dom.LiveNode
}

// Unmount removes the mounted head content.
func (h *HeadHandle) Unmount() {
	for _, n := range h.nodes {
		if p := n.ParentElement(); p != nil {
			p.RemoveChild(n)
		}
	}

	mounts.mu.Lock()
	if mounts.heads[h.key] == h {
		delete(mounts.heads, h.key)
	}
	mounts.mu.Unlock()
}

// MountInHead appends children to the document head, tracked under id so
// they can be unmounted as a unit. Mounting two head trees under one id is
// a programming error and panics. Returns ErrNoHead if the document has no
// head element.
func MountInHead(doc *dom.Document, id string, children ...dom.Node) (*HeadHandle, error) {
	head := doc.Head()
	if head == nil {
		return nil, ErrNoHead
	}

	key := mountKey{doc: doc, id: id}
	mounts.mu.Lock()
	if _, dup := mounts.heads[key]; dup {
		mounts.mu.Unlock()
		panic(fmt.Sprintf("weft: duplicate head mount id %q", id))
	}
	h := &HeadHandle{key: key}
	mounts.heads[key] = h
	mounts.mu.Unlock()

	for _, child := range children {
		ln := child.LiveNode()
		if ln == nil {
			ln = dom.Materialize(doc, child)
		}
		head.AppendChild(ln)
		h.nodes = append(h.nodes, ln)
	}
	return h, nil
}

// UnmountAll removes every tracked mounted subtree and head mount. It is
// the reset between independent runs, used by tests.
func UnmountAll() {
	mounts.mu.Lock()
	handles := make([]*MountHandle, 0, len(mounts.byKey))
	for _, h := range mounts.byKey {
		handles = append(handles, h)
	}
	heads := make([]*HeadHandle, 0, len(mounts.heads))
	for _, h := range mounts.heads {
		heads = append(heads, h)
	}
	mounts.mu.Unlock()

	for _, h := range handles {
		h.Unmount()
	}
	for _, h := range heads {
		h.Unmount()
	}
}
