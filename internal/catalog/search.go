package catalog

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/shopapi"
)

type searchAPI interface {
	SearchProducts(ctx context.Context, query string) ([]shopapi.Product, error)
}

// searcher serializes search-as-you-type requests by sequence number:
// every call takes the next sequence, and a result is reported stale when
// a newer call has been issued by the time it returns. Last write wins by
// issue order, not by arrival time.
type searcher struct {
	api      searchAPI
	minLen   int
	debounce time.Duration
	seq      atomic.Uint64
}

func newSearcher(api searchAPI, minLen int, debounce time.Duration) *searcher {
	return &searcher{api: api, minLen: minLen, debounce: debounce}
}

func (s *searcher) run(ctx context.Context, query string) ([]shopapi.Product, bool, error) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < s.minLen {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "search query too short")
	}

	mine := s.seq.Add(1)

	// Debounce before touching the upstream: if a newer query arrives
	// during the wait this one is already superseded and never dispatched.
	if s.debounce > 0 {
		timer := time.NewTimer(s.debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, false, ctx.Err()
		case <-timer.C:
		}
		if s.seq.Load() != mine {
			return nil, true, nil
		}
	}

	raws, err := s.api.SearchProducts(ctx, trimmed)
	if err != nil {
		return nil, false, err
	}

	if s.seq.Load() != mine {
		return nil, true, nil
	}
	return raws, false, nil
}
