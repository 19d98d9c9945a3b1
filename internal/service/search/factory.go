package search

import (
	"context"
	"log/slog"

	"github.com/programpal/pathfinder/internal/config"
)

// New builds the aggregator from config: College Scorecard first, then Perplexity.
// A cache that cannot be reached is logged and skipped.
func New(ctx context.Context, cfg *config.Config) *Aggregator {
	scorecard := NewScorecard(cfg.ScorecardAPIURL, cfg.ScorecardAPIKey, cfg.ScorecardTimeout)
	perplexity := NewPerplexity(cfg.PerplexityAPIURL, cfg.PerplexityAPIKey, cfg.PerplexityModel, cfg.PerplexityTimeout)

	if scorecard.stubMode {
		slog.Info("search provider in stub mode", "provider", scorecard.Name())
	}
	if perplexity.stubMode {
		slog.Info("search provider in stub mode", "provider", perplexity.Name())
	}

	var cache Cache
	if cfg.SearchCacheURL != "" {
		redisCache, err := NewRedisCache(ctx, cfg.SearchCacheURL)
		if err != nil {
			slog.Warn("search cache disabled", "error", err)
		} else {
			cache = redisCache
		}
	}

	return NewAggregator(cache, cfg.SearchCacheTTL, scorecard, perplexity)
}
