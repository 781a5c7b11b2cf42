package selector

import (
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"dealradar/internal/domain"
	"dealradar/internal/domain/entity"
	"dealradar/internal/domain/value"
	"dealradar/pkg/errcodes"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

// dealListKeys are the object keys under which models have been observed to
// nest the selection, in acceptance order.
var dealListKeys = []string{"deals", "selected_deals", "promising_deals"} //nolint:gochecknoglobals

type rawDeal struct {
	ProductDescription string   `json:"product_description" validate:"required"`
	Price              rawPrice `json:"price"`
	URL                string   `json:"url"`
}

// rawPrice accepts both a JSON number and a price string like "$1,299.99".
// A price without numeric content decodes to zero so the entry is dropped by
// the price > 0 filter instead of failing the whole selection.
type rawPrice float64

func (p *rawPrice) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))

	if strings.HasPrefix(s, `"`) {
		var quoted string
		if err := json.Unmarshal(data, &quoted); err != nil {
			return err
		}
		s = quoted
	}

	parsed, err := value.ParsePrice(s)
	if err != nil {
		*p = 0
		return nil
	}

	*p = rawPrice(parsed)

	return nil
}

// parseSelection turns a model reply into normalized deals. It tolerates
// markdown fences and the known list-nesting variants; an unrecognized shape
// is a parse failure, never a silent coercion. Entries failing validation,
// lacking a URL, or priced at or below zero are dropped.
func parseSelection(reply string) ([]entity.Deal, error) {
	payload := extractJSON(reply)
	if payload == "" {
		return nil, domain.NewError(errcodes.ModelReplyInvalid, "reply contains no JSON")
	}

	rawDeals, err := decodeDealList(payload)
	if err != nil {
		return nil, err
	}

	deals := make([]entity.Deal, 0, len(rawDeals))

	for _, raw := range rawDeals {
		if err := validate.Struct(raw); err != nil {
			continue
		}
		if raw.URL == "" || raw.Price <= 0 {
			continue
		}

		deals = append(deals, entity.Deal{
			ProductDescription: raw.ProductDescription,
			Price:              float64(raw.Price),
			URL:                raw.URL,
		})
	}

	return deals, nil
}

func decodeDealList(payload string) ([]rawDeal, error) {
	trimmed := strings.TrimSpace(payload)

	// Shape 1: top-level array.
	if strings.HasPrefix(trimmed, "[") {
		var rawDeals []rawDeal
		if err := json.UnmarshalFromString(trimmed, &rawDeals); err != nil {
			return nil, domain.WrapError(err, errcodes.ModelReplyInvalid, "reply array is not valid JSON")
		}
		return rawDeals, nil
	}

	// Shape 2: object with the list nested under a known key.
	var envelope map[string]jsoniter.RawMessage
	if err := json.UnmarshalFromString(trimmed, &envelope); err != nil {
		return nil, domain.WrapError(err, errcodes.ModelReplyInvalid, "reply is not valid JSON")
	}

	for _, key := range dealListKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}

		var rawDeals []rawDeal
		if err := json.Unmarshal(raw, &rawDeals); err != nil {
			return nil, domain.WrapError(err, errcodes.ModelReplyInvalid, "deal list is not valid JSON")
		}
		return rawDeals, nil
	}

	return nil, domain.NewError(errcodes.ModelReplyInvalid, "reply has none of the expected deal list keys")
}

// extractJSON returns the JSON substring of a reply, stripping markdown code
// fences and any prose around the outermost object or array.
func extractJSON(reply string) string {
	s := strings.TrimSpace(reply)

	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}

	end := strings.LastIndexAny(s, "}]")
	if end < start {
		return ""
	}

	return s[start : end+1]
}
