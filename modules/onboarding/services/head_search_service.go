package services

import (
	"context"
	"sync"
	"time"

	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/genealogy"
	"github.com/mattackal/family-onboarding/pkg/serrors"
)

var ErrSearchSuperseded = serrors.NewError(
	"HEAD_SEARCH_SUPERSEDED",
	"a newer search replaced this one",
	"",
)

// HeadSearchService debounces head-name lookups and guarantees that only
// the most recently issued query per session ever surfaces results. Every
// call takes the next sequence number; a call that is no longer the latest
// when its debounce window closes, or when its response lands, is dropped.
type HeadSearchService struct {
	api   GenealogyAPI
	delay time.Duration

	mu     sync.Mutex
	latest map[string]uint64
	seq    uint64
}

func NewHeadSearchService(api GenealogyAPI, delay time.Duration) *HeadSearchService {
	return &HeadSearchService{
		api:    api,
		delay:  delay,
		latest: map[string]uint64{},
	}
}

func (s *HeadSearchService) issue(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.latest[sessionID] = s.seq
	return s.seq
}

func (s *HeadSearchService) isLatest(sessionID string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[sessionID] == id
}

// Search waits out the debounce window, then queries the backend. Callers
// whose query was superseded while waiting or in flight get
// ErrSearchSuperseded instead of stale candidates.
func (s *HeadSearchService) Search(ctx context.Context, sessionID, branchID, query string) ([]genealogy.HeadRecord, error) {
	id := s.issue(sessionID)

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if !s.isLatest(sessionID, id) {
		return nil, ErrSearchSuperseded
	}

	results, err := s.api.SearchHeads(ctx, branchID, query)
	if !s.isLatest(sessionID, id) {
		return nil, ErrSearchSuperseded
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}
