// Package search fans a free-text query out to external program directories
// and merges what comes back.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/programpal/pathfinder/internal/model"
)

// Provider is one external source of program results.
type Provider interface {
	// Name is the source label attached to every result.
	Name() string
	// Timeout bounds a single Search call.
	Timeout() time.Duration
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// orUnknown returns s, or model.Unknown when s is blank.
func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Unknown
	}
	return s
}

// stringValue renders loosely typed JSON values as text.
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(x)
	}
}
