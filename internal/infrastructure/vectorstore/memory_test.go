package vectorstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dealradar/internal/domain/entity"
	"dealradar/internal/infrastructure/vectorstore"
	"dealradar/pkg/tests"
)

func TestMemorySearchOrdering(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := vectorstore.NewMemory(2)

	items := []entity.SimilarItem{
		{Description: "far", Price: 10},
		{Description: "near", Price: 20},
		{Description: "middle", Price: 30},
	}
	vectors := [][]float64{
		{0, 1},
		{1, 0},
		{0.7071, 0.7071},
	}
	rq.NoError(store.Upsert(ctx, items, vectors))

	results, err := store.Search(ctx, []float64{1, 0}, 2)
	rq.NoError(err)
	rq.Len(results, 2)
	rq.Equal("near", results[0].Description)
	rq.Equal("middle", results[1].Description)
}

func TestMemorySearchShortIndex(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := vectorstore.NewMemory(2)
	rq.NoError(store.Upsert(ctx,
		[]entity.SimilarItem{{Description: "only", Price: 5}},
		[][]float64{{1, 0}},
	))

	results, err := store.Search(ctx, []float64{1, 0}, 5)
	rq.NoError(err)
	rq.Len(results, 1)
}

func TestMemorySearchTiesKeepInsertionOrder(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := vectorstore.NewMemory(2)
	rq.NoError(store.Upsert(ctx,
		[]entity.SimilarItem{
			{Description: "first", Price: 1},
			{Description: "second", Price: 2},
		},
		[][]float64{{1, 0}, {1, 0}},
	))

	for range 10 {
		results, err := store.Search(ctx, []float64{1, 0}, 2)
		rq.NoError(err)
		rq.Equal("first", results[0].Description)
		rq.Equal("second", results[1].Description)
	}
}

func TestMemoryUpsertValidation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := vectorstore.NewMemory(2)

	rq.Error(store.Upsert(ctx, []entity.SimilarItem{{Description: "x"}}, nil))
	rq.Error(store.Upsert(ctx,
		[]entity.SimilarItem{{Description: "x"}},
		[][]float64{{1, 0, 0}},
	))

	_, err := store.Search(ctx, []float64{1, 0}, 0)
	rq.Error(err)
}

func TestNormalize(t *testing.T) {
	rq := require.New(t)

	vec := []float64{3, 4}
	vectorstore.Normalize(vec)
	rq.InDelta(1.0, vectorstore.Magnitude(vec), 1e-9)
	rq.InDelta(0.6, vec[0], 1e-9)
	rq.InDelta(0.8, vec[1], 1e-9)

	zero := []float64{0, 0}
	vectorstore.Normalize(zero)
	rq.Equal([]float64{0, 0}, zero)
}

func TestNormalizeRandomVectors(t *testing.T) {
	rq := require.New(t)
	random := tests.NewRandomizer()

	for range 20 {
		vec := make([]float64, 8)
		for i := range vec {
			vec[i] = random.Float64() - 0.5
		}

		vectorstore.Normalize(vec)

		if m := vectorstore.Magnitude(vec); m != 0 {
			rq.InDelta(1.0, m, 1e-9)
		}
	}
}
