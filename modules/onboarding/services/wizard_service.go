package services

import (
	"context"
	"sync"

	"github.com/goccy/go-json"

	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/genealogy"
	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/sessionstore"
	"github.com/mattackal/family-onboarding/pkg/eventbus"
	"github.com/mattackal/family-onboarding/pkg/serrors"
)

var ErrPreviewUnavailable = serrors.NewError(
	"WIZARD_PREVIEW_UNAVAILABLE",
	"preview requires a saved member record",
	"",
)

// WizardService hands out one Wizard per session, resuming from the
// durable snapshot when the in-memory instance is gone (restart, new pod).
type WizardService struct {
	api       GenealogyAPI
	store     sessionstore.Store
	publisher eventbus.EventBus

	mu      sync.Mutex
	wizards map[string]*Wizard
}

func NewWizardService(api GenealogyAPI, store sessionstore.Store, publisher eventbus.EventBus) *WizardService {
	return &WizardService{
		api:       api,
		store:     store,
		publisher: publisher,
		wizards:   map[string]*Wizard{},
	}
}

// Wizard returns the session's wizard, restoring or creating it as needed.
func (s *WizardService) Wizard(ctx context.Context, sessionID string) (*Wizard, error) {
	s.mu.Lock()
	if w, ok := s.wizards[sessionID]; ok {
		s.mu.Unlock()
		return w, nil
	}
	s.mu.Unlock()

	w := newWizard(sessionID, s.api, s.store, s.publisher)
	data, found, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if found {
		var snap wizardSnapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			w.restore(snap)
		}
		// a corrupt snapshot starts the wizard fresh rather than failing
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.wizards[sessionID]; ok {
		return existing, nil
	}
	s.wizards[sessionID] = w
	return w, nil
}

// Branches proxies the branch list powering the step-1 dropdown.
func (s *WizardService) Branches(ctx context.Context) ([]genealogy.Branch, error) {
	return s.api.Branches(ctx)
}

// SearchFathers powers the father-name autocomplete; selecting a result
// with a spouse name lets the UI auto-fill the mother's name.
func (s *WizardService) SearchFathers(ctx context.Context, query string) ([]genealogy.MiniMember, error) {
	return s.api.SearchMembersMini(ctx, "Male", query)
}

// Preview fetches the full composite record for the preview step.
func (s *WizardService) Preview(ctx context.Context, sessionID string) (genealogy.MemberPreview, error) {
	w, err := s.Wizard(ctx, sessionID)
	if err != nil {
		return genealogy.MemberPreview{}, err
	}
	state := w.State()
	if !state.Head.IsKnown() || state.MemberID == 0 {
		return genealogy.MemberPreview{}, ErrPreviewUnavailable
	}
	return s.api.MemberPreview(ctx, state.Head.UUID, state.MemberID)
}

// Forget drops the in-memory wizard; tests and logout hooks use it.
func (s *WizardService) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.wizards, sessionID)
	s.mu.Unlock()
}
