package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"dealradar/internal/domain"
	"dealradar/internal/domain/entity"
	"dealradar/internal/server"
	"dealradar/pkg/errcodes"
	"dealradar/pkg/rest"
	"dealradar/pkg/tests"
)

type stubRepo struct {
	opps      []entity.Opportunity
	gotLimit  int
	gotOffset int
}

func (s *stubRepo) List(_ context.Context, limit, offset int) ([]entity.Opportunity, error) {
	s.gotLimit = limit
	s.gotOffset = offset
	return s.opps, nil
}

func (s *stubRepo) GetByURL(_ context.Context, url string) (entity.Opportunity, error) {
	for _, opp := range s.opps {
		if opp.Deal.URL == url {
			return opp, nil
		}
	}
	return entity.Opportunity{}, domain.NewError(errcodes.OpportunityNotFound, "opportunity not found")
}

func newTestServer(t *testing.T, repo *stubRepo) tests.APIClient {
	t.Helper()

	router := chi.NewRouter()
	server.NewServer(server.NewOpportunityServer(repo)).RegisterRoutes(router)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return tests.NewAPIClient(ts.URL, nil)
}

func TestGetOpportunities(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	createdAt := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	repo := &stubRepo{opps: []entity.Opportunity{
		{
			Deal: entity.Deal{
				ProductDescription: "Cordless drill with two batteries",
				Price:              89.99,
				URL:                "https://deals.example/drill",
			},
			Estimate:  149.99,
			Discount:  60,
			CreatedAt: createdAt,
		},
	}}

	client := newTestServer(t, repo)

	var got rest.OpportunityList
	resp, err := client.Get(ctx, "/v1/opportunities?limit=10&offset=5", nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Equal(10, repo.gotLimit)
	rq.Equal(5, repo.gotOffset)

	rq.Len(got.Opportunities, 1)
	rq.Equal("https://deals.example/drill", got.Opportunities[0].URL)
	rq.InDelta(60, got.Opportunities[0].Discount, 1e-9)
	rq.True(got.Opportunities[0].CreatedAt.Equal(createdAt))
}

func TestGetOpportunitiesInvalidPaging(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	client := newTestServer(t, &stubRepo{})

	for _, query := range []string{
		"limit=0",
		"limit=9999",
		"limit=abc",
		"offset=-1",
	} {
		var errBody rest.Error
		resp, err := client.Get(ctx, "/v1/opportunities?"+query, nil, nil, &errBody)
		rq.NoError(err, query)
		rq.Equal(http.StatusBadRequest, resp.StatusCode, query)
		rq.Equal(rest.ErrorCode(errcodes.InvalidPaging), errBody.Code, query)
	}
}

func TestLookupOpportunity(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &stubRepo{opps: []entity.Opportunity{
		{
			Deal: entity.Deal{
				ProductDescription: "Robot vacuum",
				Price:              199,
				URL:                "https://deals.example/vacuum",
			},
			Estimate: 320,
			Discount: 121,
		},
	}}

	client := newTestServer(t, repo)

	var got rest.Opportunity
	resp, err := client.Get(ctx, "/v1/opportunities/lookup?url=https%3A%2F%2Fdeals.example%2Fvacuum", nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("Robot vacuum", got.Description)

	resp, err = client.Get(ctx, "/v1/opportunities/lookup?url=https%3A%2F%2Fdeals.example%2Fmissing", nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)

	resp, err = client.Get(ctx, "/v1/opportunities/lookup", nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
}
