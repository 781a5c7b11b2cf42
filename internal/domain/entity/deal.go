package entity

import (
	"fmt"
	"time"
)

// ScrapedDeal is a raw unit pulled from a feed. Immutable once created;
// the URL doubles as its identity for deduplication against alert history.
type ScrapedDeal struct {
	URL       string
	Title     string
	RawText   string
	FetchedAt time.Time
}

// Describe renders the deal the way it is presented to the selection model.
func (d ScrapedDeal) Describe() string {
	return fmt.Sprintf("Title: %s\nDetails: %s\nURL: %s", d.Title, d.RawText, d.URL)
}

// Deal is a normalized, high-confidence deal produced by selection.
// Price is always strictly positive; ProductDescription is a prose summary of
// the product with discount language stripped.
type Deal struct {
	ProductDescription string
	Price              float64
	URL                string
}

// SimilarItem is a historically priced product retrieved from the
// similarity index. The index owns these records; they are copies,
// independent of any scraped deal's lifetime.
type SimilarItem struct {
	Description string
	Price       float64
}
