package vectorstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"dealradar/internal/domain/entity"
)

// Memory is a brute-force cosine store over normalized vectors. Used for
// tests and for local runs without a Qdrant instance. Ordering is
// deterministic: score descending, insertion order on ties.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	items     []entity.SimilarItem
}

func NewMemory(dimension int) *Memory {
	return &Memory{dimension: dimension}
}

func (m *Memory) Upsert(_ context.Context, items []entity.SimilarItem, vectors [][]float64) error {
	if len(items) != len(vectors) {
		return errors.New("items and vectors length mismatch")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range vectors {
		if len(v) != m.dimension {
			return errors.New("vector dimension mismatch")
		}
	}

	m.items = append(m.items, items...)
	m.vectors = append(m.vectors, vectors...)

	return nil
}

func (m *Memory) Search(_ context.Context, vector []float64, k int) ([]entity.SimilarItem, error) {
	if k <= 0 {
		return nil, errors.New("k must be positive")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	idxs := make([]int, len(m.vectors))
	scores := make([]float64, len(m.vectors))
	for i := range m.vectors {
		idxs[i] = i
		scores[i] = Dot(m.vectors[i], vector)
	}

	sort.SliceStable(idxs, func(a, b int) bool {
		return scores[idxs[a]] > scores[idxs[b]]
	})

	if k > len(idxs) {
		k = len(idxs)
	}

	results := make([]entity.SimilarItem, 0, k)
	for _, idx := range idxs[:k] {
		results = append(results, m.items[idx])
	}

	return results, nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
