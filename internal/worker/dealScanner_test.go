package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dealradar/internal/domain/entity"
	"dealradar/internal/worker"
)

type stubFetcher struct {
	deals []entity.ScrapedDeal
	err   error
}

func (s *stubFetcher) FetchDeals(context.Context) ([]entity.ScrapedDeal, error) {
	return s.deals, s.err
}

type stubSelector struct {
	mu        sync.Mutex
	gotKnown  map[string]struct{}
	gotInput  []entity.ScrapedDeal
	deals     []entity.Deal
	err       error
	callCount int
}

func (s *stubSelector) Select(_ context.Context, candidates []entity.ScrapedDeal, knownURLs map[string]struct{}) ([]entity.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callCount++
	s.gotInput = candidates
	s.gotKnown = knownURLs
	return s.deals, s.err
}

type stubEstimator struct {
	estimates map[string]float64
	errs      map[string]error
}

func (s *stubEstimator) EstimatePrice(_ context.Context, description string) (float64, error) {
	if err, ok := s.errs[description]; ok {
		return 0, err
	}
	return s.estimates[description], nil
}

type stubStore struct {
	mu       sync.Mutex
	known    []string
	knownErr error
	created  []entity.Opportunity
}

func (s *stubStore) KnownURLs(context.Context) ([]string, error) {
	return s.known, s.knownErr
}

func (s *stubStore) CreateBatch(_ context.Context, opps []entity.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, opps...)
	return nil
}

func TestScanOnce(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	scraped := []entity.ScrapedDeal{
		{URL: "https://deals.example/a", Title: "Laptop", RawText: "deal a"},
		{URL: "https://deals.example/b", Title: "Camera", RawText: "deal b"},
		{URL: "https://deals.example/known", Title: "Old", RawText: "seen before"},
	}

	fetcher := &stubFetcher{deals: scraped}
	selector := &stubSelector{deals: []entity.Deal{
		{ProductDescription: "Gaming laptop with RTX GPU", Price: 50, URL: "https://deals.example/a"},
		{ProductDescription: "Mirrorless camera body", Price: 75, URL: "https://deals.example/b"},
	}}
	estimator := &stubEstimator{estimates: map[string]float64{
		"Gaming laptop with RTX GPU": 80,
		"Mirrorless camera body":     60,
	}}
	store := &stubStore{known: []string{"https://deals.example/known"}}

	opps := make(chan entity.Opportunity, 8)

	scanner := worker.NewDealScanner(fetcher, selector, estimator, store, opps).
		WithDiscountThreshold(20)

	scanner.ScanOnce(ctx)

	// selector saw every scraped deal plus the repo's known url set
	rq.Equal(scraped, selector.gotInput)
	rq.Contains(selector.gotKnown, "https://deals.example/known")

	// laptop: 80-50=30 passes; camera: 60-75=-15 gated out
	rq.Len(store.created, 1)
	rq.Equal("https://deals.example/a", store.created[0].Deal.URL)
	rq.InDelta(30, store.created[0].Discount, 1e-9)

	rq.Len(opps, 1)
	got := <-opps
	rq.InDelta(80, got.Estimate, 1e-9)
}

func TestScanOnceEstimateFailureDropsDeal(t *testing.T) {
	rq := require.New(t)

	fetcher := &stubFetcher{deals: []entity.ScrapedDeal{
		{URL: "https://deals.example/a", Title: "A", RawText: "x"},
	}}
	selector := &stubSelector{deals: []entity.Deal{
		{ProductDescription: "priced fine", Price: 10, URL: "https://deals.example/a"},
		{ProductDescription: "never prices", Price: 10, URL: "https://deals.example/b"},
	}}
	estimator := &stubEstimator{
		estimates: map[string]float64{"priced fine": 100},
		errs:      map[string]error{"never prices": context.DeadlineExceeded},
	}
	store := &stubStore{}
	opps := make(chan entity.Opportunity, 8)

	scanner := worker.NewDealScanner(fetcher, selector, estimator, store, opps).
		WithDiscountThreshold(20)

	scanner.ScanOnce(context.Background())

	rq.Len(store.created, 1)
	rq.Equal("https://deals.example/a", store.created[0].Deal.URL)
}

func TestScanOnceSelectionFailureEndsCycle(t *testing.T) {
	rq := require.New(t)

	fetcher := &stubFetcher{deals: []entity.ScrapedDeal{
		{URL: "https://deals.example/a", Title: "A", RawText: "x"},
	}}
	selector := &stubSelector{err: context.DeadlineExceeded}
	store := &stubStore{}
	opps := make(chan entity.Opportunity, 1)

	scanner := worker.NewDealScanner(fetcher, selector, &stubEstimator{}, store, opps)

	scanner.ScanOnce(context.Background())

	rq.Empty(store.created)
	rq.Empty(opps)
}

func TestScanOnceRemembersSelectedURLs(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	fetcher := &stubFetcher{deals: []entity.ScrapedDeal{
		{URL: "https://deals.example/a", Title: "A", RawText: "x"},
	}}
	// selected but gated out by the threshold, so never persisted
	selector := &stubSelector{deals: []entity.Deal{
		{ProductDescription: "cheap find", Price: 99, URL: "https://deals.example/a"},
	}}
	estimator := &stubEstimator{estimates: map[string]float64{"cheap find": 100}}
	store := &stubStore{}
	opps := make(chan entity.Opportunity, 1)

	scanner := worker.NewDealScanner(fetcher, selector, estimator, store, opps).
		WithDiscountThreshold(50)

	scanner.ScanOnce(ctx)
	rq.Empty(store.created)

	// second cycle still treats the url as known
	scanner.ScanOnce(ctx)
	rq.Equal(2, selector.callCount)
	rq.Contains(selector.gotKnown, "https://deals.example/a")
}

func TestStartStop(t *testing.T) {
	rq := require.New(t)

	fetcher := &stubFetcher{}
	selector := &stubSelector{}
	store := &stubStore{}
	opps := make(chan entity.Opportunity, 1)

	scanner := worker.NewDealScanner(fetcher, selector, &stubEstimator{}, store, opps).
		WithScanInterval(time.Hour)

	rq.NoError(scanner.Start(context.Background()))
	rq.True(scanner.IsRunning())
	rq.Error(scanner.Start(context.Background()))

	scanner.Stop()
	rq.False(scanner.IsRunning())
}
