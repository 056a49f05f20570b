package services

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mattackal/family-onboarding/modules/onboarding/domain/registration"
	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/genealogy"
	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/sessionstore"
	"github.com/mattackal/family-onboarding/pkg/eventbus"
	"github.com/mattackal/family-onboarding/pkg/serrors"
)

var (
	ErrWizardBusy = serrors.NewError("WIZARD_BUSY", "a submission is already in progress", "")
	ErrBadStep    = serrors.NewError("WIZARD_BAD_STEP", "step is out of range", "")
)

const (
	msgConnectivity    = "Could not reach the server. Please check your connection and try again."
	msgHeadRequired    = "The family head has not been saved yet. Complete the Family Details step first."
	msgMemberRequired  = "The member record has not been saved yet. Complete the Personal Details step first."
	msgMissingRecordID = "The previously saved record could not be found for update."
)

// StepOutcome is what a navigation attempt produced. Validation and
// submission failures are data here, not errors: the wizard always returns
// to an interactive state at the step where they occurred.
type StepOutcome struct {
	Step             registration.Step `json:"step"`
	Advanced         bool              `json:"advanced"`
	SkippedNetwork   bool              `json:"skippedNetwork"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
	ErrorMessage     string            `json:"errorMessage,omitempty"`
}

// Wizard owns one session's registration flow: the draft, the position,
// which steps are persisted, the last persisted slice per step and the
// resolved identifiers later steps depend on.
type Wizard struct {
	mu        sync.Mutex
	sessionID string
	api       GenealogyAPI
	store     sessionstore.Store
	publisher eventbus.EventBus

	current      registration.Step
	draft        registration.Draft
	completed    map[registration.Step]bool
	snapshots    map[registration.Step]any
	head         registration.HeadReference
	headSelected bool
	memberID     int
	contactID    int
	employmentID int
	busy         bool
}

func newWizard(sessionID string, api GenealogyAPI, store sessionstore.Store, publisher eventbus.EventBus) *Wizard {
	return &Wizard{
		sessionID: sessionID,
		api:       api,
		store:     store,
		publisher: publisher,
		current:   registration.StepFamilyDetails,
		draft:     registration.NewDraft(),
		completed: map[registration.Step]bool{},
		snapshots: map[registration.Step]any{},
	}
}

func (w *Wizard) SessionID() string { return w.sessionID }

// State is a read-only copy of the wizard for rendering.
type State struct {
	SessionID    string
	CurrentStep  registration.Step
	MaxStep      registration.Step
	Alive        bool
	Progress     int
	Draft        registration.Draft
	Completed    []registration.Step
	Head         registration.HeadReference
	MemberID     int
	ContactID    int
	EmploymentID int
	Busy         bool
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	completed := make([]registration.Step, 0, len(w.completed))
	for s := registration.StepFamilyDetails; s <= registration.StepPreview; s++ {
		if w.completed[s] {
			completed = append(completed, s)
		}
	}
	alive := w.draft.Alive()
	return State{
		SessionID:    w.sessionID,
		CurrentStep:  w.current,
		MaxStep:      registration.MaxStep(alive),
		Alive:        alive,
		Progress:     registration.Progress(w.current, alive),
		Draft:        w.draft.Clone(),
		Completed:    completed,
		Head:         w.head,
		MemberID:     w.memberID,
		ContactID:    w.contactID,
		EmploymentID: w.employmentID,
		Busy:         w.busy,
	}
}

// UpdateFamilyDetails replaces the step-1 slice. A branch change drops any
// previously fixed head identifier: heads are namespaced per branch.
func (w *Wizard) UpdateFamilyDetails(ctx context.Context, fd registration.FamilyDetails) {
	w.mu.Lock()
	if fd.BranchID != w.draft.FamilyDetails.BranchID {
		w.head = w.head.InvalidateForBranch(fd.BranchID)
		w.headSelected = false
	}
	if fd.HeadOfFamilyName != w.draft.FamilyDetails.HeadOfFamilyName && w.headSelected {
		// typing over a selected candidate reverts to "will create new"
		w.head = registration.HeadReference{}
		w.headSelected = false
	}
	w.draft.FamilyDetails = fd
	w.persistLocked(ctx)
	w.mu.Unlock()
}

// SelectHead fixes a known head picked from search results; step 1's
// submit will then skip the create call.
func (w *Wizard) SelectHead(ctx context.Context, id uuid.UUID, name string) {
	w.mu.Lock()
	w.head = registration.KnownHead(id)
	w.headSelected = true
	w.draft.FamilyDetails.HeadOfFamilyName = name
	w.persistLocked(ctx)
	w.mu.Unlock()
}

// UpdatePersonalDetails replaces the step-2 slice, keeping the children
// list sized to the requested count.
func (w *Wizard) UpdatePersonalDetails(ctx context.Context, pd registration.PersonalDetails) {
	pd.Children = registration.ResizeChildren(pd.Children, pd.NumberOfChildren)
	w.mu.Lock()
	w.draft.PersonalDetails = pd
	w.persistLocked(ctx)
	w.mu.Unlock()
}

func (w *Wizard) UpdateContactInfo(ctx context.Context, ci registration.ContactInfo) {
	w.mu.Lock()
	w.draft.ContactInfo = ci
	w.persistLocked(ctx)
	w.mu.Unlock()
}

func (w *Wizard) UpdateEmployment(ctx context.Context, e registration.Employment) {
	w.mu.Lock()
	w.draft.Employment = e
	w.persistLocked(ctx)
	w.mu.Unlock()
}

// GoNext validates and, when needed, persists the current step, then
// advances. Revisiting an already-saved step with unchanged data costs no
// network round-trip. The busy gate is taken before any suspension point
// so overlapping submissions are rejected, not raced.
func (w *Wizard) GoNext(ctx context.Context) (StepOutcome, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return StepOutcome{}, ErrWizardBusy
	}
	step := w.current
	if step == registration.StepPreview {
		w.mu.Unlock()
		return StepOutcome{Step: step}, nil
	}

	alreadyPersisted := w.completed[step]
	changed := !reflect.DeepEqual(w.draft.Slice(step), w.snapshots[step])
	if alreadyPersisted && !changed {
		w.advanceLocked()
		w.persistLocked(ctx)
		out := StepOutcome{Step: w.current, Advanced: true, SkippedNetwork: true}
		w.mu.Unlock()
		return out, nil
	}

	if errs := registration.ValidateStep(step, w.draft); len(errs) > 0 {
		out := StepOutcome{Step: step, ValidationErrors: errs}
		w.mu.Unlock()
		return out, nil
	}

	w.busy = true
	draft := w.draft.Clone()
	w.mu.Unlock()

	result := w.submitStep(ctx, step, draft, alreadyPersisted)

	w.mu.Lock()
	w.busy = false
	if result != "" {
		out := StepOutcome{Step: step, ErrorMessage: result}
		w.mu.Unlock()
		return out, nil
	}
	w.completed[step] = true
	w.snapshots[step] = w.draft.Slice(step)
	w.advanceLocked()
	w.persistLocked(ctx)
	out := StepOutcome{Step: w.current, Advanced: true}
	w.mu.Unlock()

	w.publisher.Publish(registration.StepPersistedEvent{
		SessionID: w.sessionID,
		Step:      step,
		IsEdit:    alreadyPersisted,
	})
	return out, nil
}

// GoPrevious never touches the network.
func (w *Wizard) GoPrevious(ctx context.Context) StepOutcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.current
	w.current = registration.Previous(w.current, w.draft.Alive())
	if w.current != prev {
		w.persistLocked(ctx)
	}
	return StepOutcome{Step: w.current, Advanced: w.current != prev}
}

// GoToStep jumps directly, bounded by the live maxStep; used by the
// preview's edit links. It marks nothing complete and submits nothing.
func (w *Wizard) GoToStep(ctx context.Context, step registration.Step) (StepOutcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if step < registration.StepFamilyDetails || step > registration.MaxStep(w.draft.Alive()) {
		return StepOutcome{Step: w.current}, ErrBadStep
	}
	if step != w.current {
		w.current = step
		w.persistLocked(ctx)
	}
	return StepOutcome{Step: w.current, Advanced: true}, nil
}

// Submit is the final step-5 action: it records the completion signal,
// clears the durable snapshot and resets the wizard to a fresh step 1.
func (w *Wizard) Submit(ctx context.Context) (StepOutcome, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return StepOutcome{}, ErrWizardBusy
	}
	headUUID := w.head.UUID
	memberID := w.memberID
	w.resetLocked(ctx)
	w.mu.Unlock()

	w.publisher.Publish(registration.RegistrationCompletedEvent{
		SessionID: w.sessionID,
		HeadUUID:  headUUID,
		MemberID:  memberID,
	})
	return StepOutcome{Step: registration.StepFamilyDetails, Advanced: true}, nil
}

// Reset is the explicit clear action.
func (w *Wizard) Reset(ctx context.Context) {
	w.mu.Lock()
	w.resetLocked(ctx)
	w.mu.Unlock()
	w.publisher.Publish(registration.WizardResetEvent{SessionID: w.sessionID})
}

func (w *Wizard) resetLocked(ctx context.Context) {
	w.current = registration.StepFamilyDetails
	w.draft = registration.NewDraft()
	w.completed = map[registration.Step]bool{}
	w.snapshots = map[registration.Step]any{}
	w.head = registration.HeadReference{}
	w.headSelected = false
	w.memberID = 0
	w.contactID = 0
	w.employmentID = 0
	_ = w.store.Clear(ctx, w.sessionID)
}

func (w *Wizard) advanceLocked() {
	w.current = registration.Next(w.current, w.draft.Alive())
}

// submitStep runs the step's submitter. It returns "" on success or the
// user-facing error message; nothing escapes as a panic or raw error.
func (w *Wizard) submitStep(ctx context.Context, step registration.Step, draft registration.Draft, isEdit bool) string {
	switch step {
	case registration.StepFamilyDetails:
		return w.submitFamilyDetails(ctx, draft, isEdit)
	case registration.StepPersonalDetails:
		return w.submitPersonalDetails(ctx, draft, isEdit)
	case registration.StepContactInfo:
		return w.submitContactInfo(ctx, draft, isEdit)
	case registration.StepEmployment:
		return w.submitEmployment(ctx, draft, isEdit)
	default:
		return ""
	}
}

func (w *Wizard) submitFamilyDetails(ctx context.Context, draft registration.Draft, isEdit bool) string {
	w.mu.Lock()
	head := w.head
	selected := w.headSelected
	w.mu.Unlock()

	// A candidate picked from search already has an identifier; nothing to
	// create. The selection itself is the persistence.
	if selected && head.IsKnown() {
		return ""
	}

	if isEdit && head.IsKnown() {
		if err := w.api.UpdateHead(ctx, head.UUID, draft.FamilyDetails.BranchID, draft.FamilyDetails.HeadOfFamilyName); err != nil {
			return submitError(err)
		}
		return ""
	}

	created, err := w.api.CreateHead(ctx, draft.FamilyDetails.BranchID, draft.FamilyDetails.HeadOfFamilyName)
	if err != nil {
		return submitError(err)
	}
	w.mu.Lock()
	w.head = registration.KnownHead(created.UUID)
	w.mu.Unlock()
	return ""
}

func (w *Wizard) submitPersonalDetails(ctx context.Context, draft registration.Draft, isEdit bool) string {
	w.mu.Lock()
	head := w.head
	memberID := w.memberID
	w.mu.Unlock()

	if !head.IsKnown() {
		return msgHeadRequired
	}

	pd := draft.PersonalDetails
	payload := genealogy.MemberPayload{
		Name:               pd.MemberName,
		IsDeceased:         pd.IsDeceased,
		Gender:             pd.Gender,
		DateOfBirth:        pd.DateOfBirth,
		HeadUUID:           head.UUID,
		DateOfDeath:        pd.DateOfDeath,
		MaritalStatus:      pd.MaritalStatus,
		SpouseName:         pd.SpouseName,
		WeddingAnniversary: pd.WeddingAnniversary,
		FatherName:         pd.FatherName,
		MotherName:         pd.MotherName,
		NumberOfChildren:   pd.NumberOfChildren,
	}
	if len(pd.Children) > 0 {
		children, err := json.Marshal(pd.Children)
		if err != nil {
			return submitError(err)
		}
		payload.ChildrenJSON = string(children)
	}
	if pd.PersonalPhoto != nil {
		payload.PersonalPhoto = &genealogy.Attachment{
			Filename:    pd.PersonalPhoto.Filename,
			ContentType: pd.PersonalPhoto.ContentType,
			Content:     pd.PersonalPhoto.Content,
		}
	}
	if pd.FamilyPhoto != nil {
		payload.FamilyPhoto = &genealogy.Attachment{
			Filename:    pd.FamilyPhoto.Filename,
			ContentType: pd.FamilyPhoto.ContentType,
			Content:     pd.FamilyPhoto.Content,
		}
	}

	if isEdit {
		if memberID == 0 {
			return msgMissingRecordID
		}
		if err := w.api.UpdateMember(ctx, memberID, payload); err != nil {
			return submitError(err)
		}
		return ""
	}

	id, err := w.api.CreateMember(ctx, payload)
	if err != nil {
		return submitError(err)
	}
	w.mu.Lock()
	w.memberID = id
	w.mu.Unlock()
	return ""
}

func (w *Wizard) submitContactInfo(ctx context.Context, draft registration.Draft, isEdit bool) string {
	w.mu.Lock()
	memberID := w.memberID
	contactID := w.contactID
	w.mu.Unlock()

	if memberID == 0 {
		return msgMemberRequired
	}

	payload := genealogy.ContactPayload{
		MemberID:       memberID,
		PhoneNumber:    draft.ContactInfo.ContactNumber,
		WhatsappNumber: draft.ContactInfo.WhatsappNumber,
		Email:          draft.ContactInfo.Email,
		Address:        draft.ContactInfo.Location,
	}

	if isEdit {
		if contactID == 0 {
			return msgMissingRecordID
		}
		if err := w.api.UpdateContact(ctx, contactID, payload); err != nil {
			return submitError(err)
		}
		return ""
	}

	id, err := w.api.CreateContact(ctx, payload)
	if err != nil {
		return submitError(err)
	}
	w.mu.Lock()
	w.contactID = id
	w.mu.Unlock()
	return ""
}

func (w *Wizard) submitEmployment(ctx context.Context, draft registration.Draft, isEdit bool) string {
	w.mu.Lock()
	memberID := w.memberID
	employmentID := w.employmentID
	w.mu.Unlock()

	if memberID == 0 {
		return msgMemberRequired
	}

	payload := genealogy.EmploymentPayload{
		MemberID:     memberID,
		JobStatus:    draft.Employment.JobStatus,
		CompanyName:  draft.Employment.CompanyName,
		Designation:  draft.Employment.Designation,
		WorkLocation: draft.Employment.WorkLocation,
	}

	if isEdit {
		if employmentID == 0 {
			return msgMissingRecordID
		}
		if err := w.api.UpdateEmployment(ctx, employmentID, payload); err != nil {
			return submitError(err)
		}
		return ""
	}

	id, err := w.api.CreateEmployment(ctx, payload)
	if err != nil {
		return submitError(err)
	}
	w.mu.Lock()
	w.employmentID = id
	w.mu.Unlock()
	return ""
}

func submitError(err error) string {
	var apiErr *genealogy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return msgConnectivity
}
