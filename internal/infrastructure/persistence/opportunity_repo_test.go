package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"dealradar/internal/domain"
	"dealradar/internal/domain/entity"
	"dealradar/internal/infrastructure/persistence"
	"dealradar/pkg/dbtest"
	"dealradar/pkg/errcodes"
)

func newTestRepo(t *testing.T) *persistence.OpportunityRepository {
	t.Helper()

	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/001_opportunities.sql"))

	_, err = db.Exec("TRUNCATE opportunities")
	require.NoError(t, err)

	return persistence.NewOpportunityRepository(db)
}

func TestOpportunityRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newTestRepo(t)

	first := entity.Opportunity{
		Deal: entity.Deal{
			ProductDescription: "Espresso machine with grinder",
			Price:              249.99,
			URL:                "https://deals.example/espresso",
		},
		Estimate:  399.99,
		Discount:  150,
		CreatedAt: time.Now().Add(-time.Hour).UTC(),
	}
	second := entity.Opportunity{
		Deal: entity.Deal{
			ProductDescription: "Stand mixer",
			Price:              199,
			URL:                "https://deals.example/mixer",
		},
		Estimate:  310,
		Discount:  111,
		CreatedAt: time.Now().UTC(),
	}

	rq.NoError(repo.CreateBatch(ctx, []entity.Opportunity{first, second}))

	// repeated url is skipped silently
	rq.NoError(repo.Create(ctx, first))

	urls, err := repo.KnownURLs(ctx)
	rq.NoError(err)
	rq.ElementsMatch([]string{first.Deal.URL, second.Deal.URL}, urls)

	exists, err := repo.Exists(ctx, first.Deal.URL)
	rq.NoError(err)
	rq.True(exists)

	exists, err = repo.Exists(ctx, "https://deals.example/unknown")
	rq.NoError(err)
	rq.False(exists)

	got, err := repo.GetByURL(ctx, second.Deal.URL)
	rq.NoError(err)
	rq.Equal(second.Deal.ProductDescription, got.Deal.ProductDescription)
	rq.InDelta(second.Discount, got.Discount, 1e-9)

	_, err = repo.GetByURL(ctx, "https://deals.example/unknown")
	rq.Error(err)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.OpportunityNotFound, code)

	// newest first
	list, err := repo.List(ctx, 10, 0)
	rq.NoError(err)
	rq.Len(list, 2)
	rq.Equal(second.Deal.URL, list[0].Deal.URL)
	rq.Equal(first.Deal.URL, list[1].Deal.URL)

	list, err = repo.List(ctx, 1, 1)
	rq.NoError(err)
	rq.Len(list, 1)
	rq.Equal(first.Deal.URL, list[0].Deal.URL)
}
