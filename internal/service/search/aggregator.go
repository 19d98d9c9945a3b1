package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/programpal/pathfinder/internal/model"
)

const maxQueryLength = 500

var ErrInvalidQuery = errors.New("query must be between 1 and 500 characters")

// Aggregator queries every provider concurrently and concatenates their
// results in provider order. A failing provider contributes nothing.
type Aggregator struct {
	providers []Provider
	cache     Cache
	cacheTTL  time.Duration
}

// NewAggregator wires providers in the order their results should appear.
// cache may be nil.
func NewAggregator(cache Cache, cacheTTL time.Duration, providers ...Provider) *Aggregator {
	return &Aggregator{
		providers: providers,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

type outcome struct {
	index   int
	results []model.SearchResult
	err     error
}

func (a *Aggregator) Search(ctx context.Context, query string) (*model.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" || utf8.RuneCountInString(query) > maxQueryLength {
		return nil, ErrInvalidQuery
	}

	if a.cache != nil {
		if cached, ok := a.cache.Get(ctx, query); ok {
			slog.Debug("search cache hit", "query", query)
			return cached, nil
		}
	}

	// Buffered so abandoned providers can still finish without blocking.
	outcomes := make(chan outcome, len(a.providers))
	for i, p := range a.providers {
		go func() {
			pctx, cancel := context.WithTimeout(ctx, p.Timeout())
			defer cancel()

			results, err := p.Search(pctx, query)
			outcomes <- outcome{index: i, results: results, err: err}
		}()
	}

	perProvider := make([][]model.SearchResult, len(a.providers))
	degraded := false
	for range a.providers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case o := <-outcomes:
			if o.err != nil {
				degraded = true
				slog.Warn("search provider failed", "provider", a.providers[o.index].Name(), "error", o.err)
				continue
			}
			perProvider[o.index] = o.results
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &model.SearchResponse{Results: []model.SearchResult{}}
	counts := make([]string, len(a.providers))
	for i, results := range perProvider {
		resp.Results = append(resp.Results, results...)
		counts[i] = fmt.Sprintf("%d from %s", len(results), a.providers[i].Name())
	}
	resp.Summary = fmt.Sprintf("Found %d results for %q: %s.", len(resp.Results), query, strings.Join(counts, ", "))

	if a.cache != nil && !degraded {
		a.cache.Set(ctx, query, resp, a.cacheTTL)
	}

	return resp, nil
}

// Close releases the cache connection, if any.
func (a *Aggregator) Close() error {
	if closer, ok := a.cache.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
