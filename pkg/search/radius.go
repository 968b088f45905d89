// Package search implements radius-constrained local search on top of the
// page-based Naver local search API.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/NERVsystems/navermcp/pkg/geo"
	"github.com/NERVsystems/navermcp/pkg/metrics"
	"github.com/NERVsystems/navermcp/pkg/naver"
)

// MaxPages is the hard ceiling on upstream pages fetched per search.
const MaxPages = 20

// ErrInvalidQuery is returned for queries that cannot be executed.
var ErrInvalidQuery = errors.New("invalid radius query")

// Searcher fetches one page of local search results.
type Searcher interface {
	SearchLocal(ctx context.Context, p naver.LocalSearchParams) (*naver.LocalSearchResponse, error)
}

// RadiusQuery describes a search around a center coordinate.
type RadiusQuery struct {
	Query        string
	Center       geo.Coordinate
	RadiusMeters float64
	Display      int
	Sort         string
	MinResults   int
}

// Validate checks the query before any upstream call is made.
func (q RadiusQuery) Validate() error {
	switch {
	case strings.TrimSpace(q.Query) == "":
		return fmt.Errorf("%w: query must not be empty", ErrInvalidQuery)
	case q.RadiusMeters <= 0:
		return fmt.Errorf("%w: radius must be greater than 0", ErrInvalidQuery)
	case q.Display < 0:
		return fmt.Errorf("%w: display must not be negative", ErrInvalidQuery)
	case q.MinResults < 1:
		return fmt.Errorf("%w: min_results must be at least 1", ErrInvalidQuery)
	}
	return nil
}

// Stats is the bookkeeping of one radius search.
type Stats struct {
	PagesSearched int `json:"pages_searched"`
	ItemsSeen     int `json:"total_items_found"`
	ItemsKept     int `json:"filtered_items"`
}

// RadiusSearcher pages through local search results and keeps the items
// that fall inside a radius. Pages are fetched strictly in order.
type RadiusSearcher struct {
	searcher Searcher
	logger   *slog.Logger
	maxPages int
}

// NewRadiusSearcher creates a RadiusSearcher. A nil logger discards output.
func NewRadiusSearcher(s Searcher, logger *slog.Logger) *RadiusSearcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RadiusSearcher{
		searcher: s,
		logger:   logger,
		maxPages: MaxPages,
	}
}

// SearchByRadius collects items within q.RadiusMeters of q.Center until
// q.MinResults items are found, the upstream runs out of results or MaxPages
// pages were fetched.
//
// The returned response describes the filtered set, not the upstream one:
// Total and Display are the number of items found inside the radius, Start
// is always 1 and Items holds at most q.Display of them.
func (r *RadiusSearcher) SearchByRadius(ctx context.Context, q RadiusQuery) (*naver.LocalSearchResponse, Stats, error) {
	var stats Stats
	if err := q.Validate(); err != nil {
		return nil, stats, err
	}

	logger := r.logger.With("query", q.Query, "center", q.Center.String(), "radius", q.RadiusMeters)
	logger.Info("radius search started",
		"display", q.Display,
		"sort", q.Sort,
		"min_results", q.MinResults)

	filtered := make([]naver.LocalItem, 0, q.MinResults)
	page := 1
	for len(filtered) < q.MinResults && page <= r.maxPages {
		resp, err := r.searcher.SearchLocal(ctx, naver.LocalSearchParams{
			Query:   q.Query,
			Display: q.Display,
			Start:   page,
			Sort:    q.Sort,
		})
		if err != nil {
			// the upstream message is what the caller sees
			logger.Error("radius search failed", "page", page, "error", err)
			return nil, stats, err
		}
		stats.PagesSearched++

		logger.Info("page fetched", "page", page, "total", resp.Total, "items", len(resp.Items))
		if len(resp.Items) == 0 {
			break
		}
		stats.ItemsSeen += len(resp.Items)

		kept := 0
		for _, item := range resp.Items {
			pos, ok := geo.FromFixedPoint(item.MapX, item.MapY)
			if !ok {
				logger.Debug("skipping item without position", "title", item.Title)
				continue
			}
			if geo.Distance(q.Center, pos) <= q.RadiusMeters {
				filtered = append(filtered, item)
				kept++
			}
		}
		stats.ItemsKept += kept
		logger.Debug("page filtered", "page", page, "kept", kept)

		page++

		if len(filtered) >= q.MinResults || resp.Total <= (page-1)*q.Display {
			break
		}
	}

	shown := filtered
	if len(shown) > q.Display {
		shown = shown[:q.Display]
	}

	metrics.RadiusSearchPages.Observe(float64(stats.PagesSearched))
	metrics.RadiusSearchResults.Observe(float64(len(filtered)))

	titles := make([]string, 0, len(shown))
	for _, item := range shown {
		titles = append(titles, item.Title)
	}
	logger.Info("radius search finished",
		"total_results", len(filtered),
		"displayed_results", len(shown),
		"pages_searched", stats.PagesSearched,
		"total_items_found", stats.ItemsSeen,
		"filtered_items", stats.ItemsKept,
		"titles", titles)

	return &naver.LocalSearchResponse{
		Total:   len(filtered),
		Start:   1,
		Display: len(filtered),
		Items:   shown,
	}, stats, nil
}
