package vectorstore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"dealradar/internal/domain"
	"dealradar/internal/domain/entity"
	"dealradar/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const defaultTimeout = 15 * time.Second

// Qdrant is a minimal REST client for a Qdrant collection holding
// historical (description, price) records. Read-only from the pipeline's
// perspective; the collection is built and maintained out of process.
type Qdrant struct {
	url        string
	collection string
	model      string
	client     *http.Client
}

type QdrantConfig struct {
	URL        string
	Collection string
	// Model is the embedding model the collection was built with. Check
	// compares it against the encoder's model at startup so nearest-neighbor
	// results are never silently meaningless.
	Model   string
	Timeout time.Duration
}

func NewQdrant(cfg QdrantConfig, httpClient *http.Client) *Qdrant {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Qdrant{
		url:        cfg.URL,
		collection: cfg.Collection,
		model:      cfg.Model,
		client:     httpClient,
	}
}

// Check validates the encoder/index contract: same embedding model identity
// and matching vector dimension. Called once at startup.
func (q *Qdrant) Check(ctx context.Context, encoderModel string, dimension int) error {
	if q.model != encoderModel {
		return domain.NewError(errcodes.IndexModelMismatch,
			fmt.Sprintf("index built with %q, encoder uses %q", q.model, encoderModel))
	}

	var info struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size     int    `json:"size"`
						Distance string `json:"distance"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}

	if err := q.getJSON(ctx, fmt.Sprintf("%s/collections/%s", q.url, q.collection), &info); err != nil {
		return fmt.Errorf("collection info: %w", err)
	}

	if size := info.Result.Config.Params.Vectors.Size; size != dimension {
		return domain.NewError(errcodes.IndexModelMismatch,
			fmt.Sprintf("collection vector size %d, encoder dimension %d", size, dimension))
	}

	return nil
}

// Search returns up to k nearest records, nearest first. Qdrant orders by
// score and breaks ties by point id, so identical queries over identical
// contents are deterministic.
func (q *Qdrant) Search(ctx context.Context, vector []float64, k int) ([]entity.SimilarItem, error) {
	request := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}

	var response struct {
		Result []struct {
			Score   float64             `json:"score"`
			Payload map[string]jsoniter.RawMessage `json:"payload"`
		} `json:"result"`
	}

	endpoint := fmt.Sprintf("%s/collections/%s/points/search", q.url, q.collection)
	if err := q.postJSON(ctx, endpoint, request, &response); err != nil {
		return nil, err
	}

	items := make([]entity.SimilarItem, 0, len(response.Result))

	for _, point := range response.Result {
		var item entity.SimilarItem

		if raw, ok := point.Payload["description"]; ok {
			if err := json.Unmarshal(raw, &item.Description); err != nil {
				return nil, fmt.Errorf("decode description payload: %w", err)
			}
		}

		raw, ok := point.Payload["price"]
		if !ok {
			// Every stored record must carry a price; a record without one
			// is index corruption, not a selectable neighbor.
			return nil, domain.NewError(errcodes.ModelReplyInvalid, "index record has no price payload")
		}
		if err := json.Unmarshal(raw, &item.Price); err != nil {
			return nil, fmt.Errorf("decode price payload: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func (q *Qdrant) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}

	return q.do(req, out)
}

func (q *Qdrant) postJSON(ctx context.Context, endpoint string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return q.do(req, out)
}

func (q *Qdrant) do(req *http.Request, out any) error {
	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("qdrant %s %s: %s", req.Method, req.URL.Path, resp.Status)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode qdrant response: %w", err)
	}

	return nil
}
