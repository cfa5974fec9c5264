package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/metrics"
)

// Fetcher retrieves the remote lists. Client is the production implementation.
type Fetcher interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// Source says where a list in a Snapshot came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Snapshot is the outcome of one catalog load. Both lists are always
// non-empty as long as the fallback dataset is.
type Snapshot struct {
	Products       []domain.Product  `json:"products"`
	Categories     []domain.Category `json:"categories"`
	ProductSource  Source            `json:"productSource"`
	CategorySource Source            `json:"categorySource"`
	// Reason is empty for a fully remote snapshot and otherwise names why a
	// list fell back.
	Reason   string    `json:"reason,omitempty"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Source is remote only when both lists came from the remote catalog.
func (s Snapshot) Source() Source {
	if s.ProductSource == SourceRemote && s.CategorySource == SourceRemote {
		return SourceRemote
	}
	return SourceFallback
}

// Degraded reports whether any list was served from the fallback dataset.
func (s Snapshot) Degraded() bool {
	return s.Source() == SourceFallback
}

// Provider loads the catalog from a Fetcher and substitutes the static
// dataset for whatever the remote side could not deliver.
type Provider struct {
	fetcher  Fetcher
	fallback Dataset
	logger   *zap.Logger
	now      func() time.Time

	cacheTTL time.Duration
	group    singleflight.Group
	mu       sync.RWMutex
	cached   *Snapshot
}

// Option customises a Provider.
type Option func(*Provider)

// WithCacheTTL makes Current reuse a fully remote snapshot for ttl.
func WithCacheTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.cacheTTL = ttl }
}

// NewProvider builds a provider. A nil fetcher serves the fallback dataset only.
func NewProvider(fetcher Fetcher, fallback Dataset, logger *zap.Logger, opts ...Option) *Provider {
	p := &Provider{
		fetcher:  fetcher,
		fallback: fallback,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load fetches products and categories concurrently. A failure of either
// request discards both lists; afterwards each empty list is replaced by
// its fallback independently. Load never fails.
func (p *Provider) Load(ctx context.Context) Snapshot {
	var (
		products   []domain.Product
		categories []domain.Category
		reason     string
	)

	if p.fetcher == nil {
		reason = "remote catalog disabled"
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			products, err = p.fetcher.Products(gctx)
			if err != nil {
				return fmt.Errorf("products: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			categories, err = p.fetcher.Categories(gctx)
			if err != nil {
				return fmt.Errorf("categories: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			products, categories = nil, nil
			reason = err.Error()
			if ctx.Err() != nil {
				reason = "canceled: " + reason
			}
		}
	}

	snap := Snapshot{
		Products:       products,
		Categories:     categories,
		ProductSource:  SourceRemote,
		CategorySource: SourceRemote,
		Reason:         reason,
		LoadedAt:       p.now(),
	}
	if len(snap.Products) == 0 {
		snap.Products = append([]domain.Product(nil), p.fallback.Products...)
		snap.ProductSource = SourceFallback
		if snap.Reason == "" {
			snap.Reason = "empty product list"
		}
	}
	if len(snap.Categories) == 0 {
		snap.Categories = append([]domain.Category(nil), p.fallback.Categories...)
		snap.CategorySource = SourceFallback
		if snap.Reason == "" {
			snap.Reason = "empty category list"
		}
	}

	metrics.CatalogLoads.WithLabelValues(string(snap.Source())).Inc()
	if snap.Degraded() {
		p.logger.Warn("serving fallback catalog",
			zap.String("products", string(snap.ProductSource)),
			zap.String("categories", string(snap.CategorySource)),
			zap.String("reason", snap.Reason),
		)
	}
	return snap
}

// Current returns a cached fully remote snapshot while it is fresh and
// otherwise loads a new one. Concurrent callers share a single load, which
// is detached from any one caller: a caller whose ctx ends stops waiting and
// gets the fallback dataset while the others keep waiting for the load.
// Degraded snapshots are never cached.
func (p *Provider) Current(ctx context.Context) Snapshot {
	if snap, ok := p.fresh(); ok {
		return snap
	}

	ch := p.group.DoChan("catalog", func() (any, error) {
		snap := p.Load(context.WithoutCancel(ctx))
		p.remember(snap)
		return snap, nil
	})
	select {
	case res := <-ch:
		return res.Val.(Snapshot)
	case <-ctx.Done():
		return p.fallbackSnapshot("canceled: " + ctx.Err().Error())
	}
}

func (p *Provider) fallbackSnapshot(reason string) Snapshot {
	return Snapshot{
		Products:       append([]domain.Product(nil), p.fallback.Products...),
		Categories:     append([]domain.Category(nil), p.fallback.Categories...),
		ProductSource:  SourceFallback,
		CategorySource: SourceFallback,
		Reason:         reason,
		LoadedAt:       p.now(),
	}
}

func (p *Provider) remember(snap Snapshot) {
	if snap.Degraded() || p.cacheTTL <= 0 {
		return
	}
	p.mu.Lock()
	p.cached = &snap
	p.mu.Unlock()
}

func (p *Provider) fresh() (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cached == nil || p.cacheTTL <= 0 {
		return Snapshot{}, false
	}
	if p.now().Sub(p.cached.LoadedAt) >= p.cacheTTL {
		return Snapshot{}, false
	}
	return *p.cached, true
}

// Task is a single catalog load running in the background.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	snap   Snapshot
}

// Start begins a load bound to ctx. Cancelling ctx, or calling Cancel,
// aborts the in-flight requests and the task completes with the fallback.
// A fully remote result also seeds the cache used by Current.
func (p *Provider) Start(ctx context.Context) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer cancel()
		t.snap = p.Load(ctx)
		p.remember(t.snap)
	}()
	return t
}

// Cancel aborts the load. It is safe to call more than once.
func (t *Task) Cancel() { t.cancel() }

// Done is closed once the snapshot is available.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the load completes.
func (t *Task) Wait() Snapshot {
	<-t.done
	return t.snap
}
