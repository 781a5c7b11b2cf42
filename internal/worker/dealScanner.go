package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"dealradar/internal/domain/entity"
	"dealradar/internal/domain/service/pricer"
)

type DealFetcher interface {
	FetchDeals(ctx context.Context) ([]entity.ScrapedDeal, error)
}

type DealSelector interface {
	Select(ctx context.Context, candidates []entity.ScrapedDeal, knownURLs map[string]struct{}) ([]entity.Deal, error)
}

type PriceEstimator interface {
	EstimatePrice(ctx context.Context, description string) (float64, error)
}

type OpportunityStore interface {
	KnownURLs(ctx context.Context) ([]string, error)
	CreateBatch(ctx context.Context, opps []entity.Opportunity) error
}

type DealScanner struct {
	fetcher   DealFetcher
	selector  DealSelector
	estimator PriceEstimator
	repo      OpportunityStore
	opps      chan<- entity.Opportunity

	threshold    float64
	scanInterval time.Duration
	maxParallel  int

	// URLs examined in recent cycles, in front of the repository so a
	// deal rejected once is not re-estimated every cycle.
	seenURLs *gocache.Cache

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewDealScanner(
	fetcher DealFetcher,
	selector DealSelector,
	estimator PriceEstimator,
	repo OpportunityStore,
	opps chan<- entity.Opportunity,
) *DealScanner {
	return &DealScanner{
		fetcher:      fetcher,
		selector:     selector,
		estimator:    estimator,
		repo:         repo,
		opps:         opps,
		threshold:    50,
		scanInterval: time.Hour,
		maxParallel:  4,
		seenURLs:     gocache.New(24*time.Hour, time.Hour),
	}
}

func (w *DealScanner) WithDiscountThreshold(threshold float64) *DealScanner {
	w.threshold = threshold
	return w
}

// SetDiscountThreshold adjusts the gate for subsequent cycles.
func (w *DealScanner) SetDiscountThreshold(threshold float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.threshold = threshold
}

func (w *DealScanner) DiscountThreshold() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.threshold
}

func (w *DealScanner) WithScanInterval(interval time.Duration) *DealScanner {
	if interval > 0 {
		w.scanInterval = interval
	}
	return w
}

func (w *DealScanner) WithMaxParallelEstimates(n int) *DealScanner {
	if n > 0 {
		w.maxParallel = n
	}
	return w
}

func (w *DealScanner) ScanInterval() time.Duration {
	return w.scanInterval
}

func (w *DealScanner) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("scanner is already running")
	}

	scanCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(scanCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("scanner stopped with error", "error", err)
		}
	}()

	return nil
}

func (w *DealScanner) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *DealScanner) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *DealScanner) Run(ctx context.Context) error {
	logger(ctx).Info("deal scanner started", "interval", w.scanInterval)

	for {
		w.ScanOnce(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("deal scanner stopped")
			return ctx.Err()
		case <-time.After(w.scanInterval):
		}
	}
}

// ScanOnce runs a single scan cycle: fetch, select, estimate, gate by
// discount, persist and publish. Errors end the cycle, never the worker.
func (w *DealScanner) ScanOnce(ctx context.Context) {
	scanCycles.Inc()

	scraped, err := w.fetcher.FetchDeals(ctx)
	if err != nil {
		logger(ctx).Error("failed to fetch deals", "error", err)
		scanFailures.Inc()
		return
	}

	known, err := w.knownURLs(ctx)
	if err != nil {
		logger(ctx).Error("failed to load known urls", "error", err)
		scanFailures.Inc()
		return
	}

	deals, err := w.selector.Select(ctx, scraped, known)
	if err != nil {
		logger(ctx).Error("selection failed", "error", err)
		scanFailures.Inc()
		return
	}
	dealsSelected.Add(float64(len(deals)))

	for _, deal := range deals {
		w.seenURLs.SetDefault(deal.URL, struct{}{})
	}

	opportunities := w.estimateAll(ctx, deals)

	threshold := w.DiscountThreshold()

	surfaced := make([]entity.Opportunity, 0, len(opportunities))
	for _, opp := range opportunities {
		if opp.Discount < threshold {
			logger(ctx).Debug("deal below discount threshold",
				"url", opp.Deal.URL, "discount", opp.Discount)
			continue
		}
		surfaced = append(surfaced, opp)
	}

	if len(surfaced) == 0 {
		logger(ctx).Info("scan cycle completed", "scraped", len(scraped),
			"selected", len(deals), "surfaced", 0)
		return
	}

	if err := w.repo.CreateBatch(ctx, surfaced); err != nil {
		logger(ctx).Error("failed to persist opportunities", "error", err)
		scanFailures.Inc()
		return
	}

	for _, opp := range surfaced {
		select {
		case w.opps <- opp:
			opportunitiesFound.Inc()
		case <-ctx.Done():
			return
		}
	}

	logger(ctx).Info("scan cycle completed", "scraped", len(scraped),
		"selected", len(deals), "surfaced", len(surfaced))
}

// estimateAll prices the selected deals concurrently, preserving input
// order. A deal whose estimate fails is dropped from the cycle.
func (w *DealScanner) estimateAll(ctx context.Context, deals []entity.Deal) []entity.Opportunity {
	estimates := make([]float64, len(deals))
	ok := make([]bool, len(deals))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxParallel)

	for i, deal := range deals {
		g.Go(func() error {
			estimate, err := w.estimator.EstimatePrice(gCtx, deal.ProductDescription)
			if err != nil {
				logger(gCtx).Error("estimate failed", "url", deal.URL, "error", err)
				estimateFailures.Inc()
				return nil
			}
			estimates[i] = estimate
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	opportunities := make([]entity.Opportunity, 0, len(deals))
	for i, deal := range deals {
		if !ok[i] {
			continue
		}
		opportunities = append(opportunities, pricer.Rank(deal, estimates[i]))
	}

	return opportunities
}

func (w *DealScanner) knownURLs(ctx context.Context) (map[string]struct{}, error) {
	urls, err := w.repo.KnownURLs(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		known[url] = struct{}{}
	}
	for url := range w.seenURLs.Items() {
		known[url] = struct{}{}
	}

	return known, nil
}
