package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattackal/family-onboarding/modules/onboarding/domain/registration"
	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/genealogy"
	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/sessionstore"
	"github.com/mattackal/family-onboarding/pkg/eventbus"
)

type apiCalls struct {
	CreateHead       int
	UpdateHead       int
	CreateMember     int
	UpdateMember     int
	CreateContact    int
	UpdateContact    int
	CreateEmployment int
	UpdateEmployment int
}

// mockAPI is a programmable in-memory backend double.
type mockAPI struct {
	calls apiCalls

	headUUID      uuid.UUID
	memberID      int
	contactID     int
	employmentID  int
	createHeadErr error
	memberErr     error

	lastHeadName      string
	lastHeadBranch    string
	lastMember        genealogy.MemberPayload
	lastContact       genealogy.ContactPayload
	lastEmployment    genealogy.EmploymentPayload
	updatedHeadUUID   uuid.UUID
	updatedMemberID   int
	updatedContactID  int
	updatedEmployment int
}

func newMockAPI() *mockAPI {
	return &mockAPI{
		headUUID:     uuid.New(),
		memberID:     42,
		contactID:    7,
		employmentID: 9,
	}
}

func (m *mockAPI) Branches(ctx context.Context) ([]genealogy.Branch, error) {
	return []genealogy.Branch{{ID: "1", Name: "Mattackal"}}, nil
}

func (m *mockAPI) CreateHead(ctx context.Context, branchID, headName string) (genealogy.HeadRecord, error) {
	m.calls.CreateHead++
	if m.createHeadErr != nil {
		return genealogy.HeadRecord{}, m.createHeadErr
	}
	m.lastHeadBranch = branchID
	m.lastHeadName = headName
	return genealogy.HeadRecord{UUID: m.headUUID, HeadName: headName}, nil
}

func (m *mockAPI) UpdateHead(ctx context.Context, headUUID uuid.UUID, branchID, headName string) error {
	m.calls.UpdateHead++
	m.updatedHeadUUID = headUUID
	m.lastHeadBranch = branchID
	m.lastHeadName = headName
	return nil
}

func (m *mockAPI) SearchHeads(ctx context.Context, branchID, query string) ([]genealogy.HeadRecord, error) {
	return []genealogy.HeadRecord{{UUID: m.headUUID, HeadName: query}}, nil
}

func (m *mockAPI) CreateMember(ctx context.Context, p genealogy.MemberPayload) (int, error) {
	m.calls.CreateMember++
	if m.memberErr != nil {
		return 0, m.memberErr
	}
	m.lastMember = p
	return m.memberID, nil
}

func (m *mockAPI) UpdateMember(ctx context.Context, memberID int, p genealogy.MemberPayload) error {
	m.calls.UpdateMember++
	m.updatedMemberID = memberID
	m.lastMember = p
	return nil
}

func (m *mockAPI) SearchMembersMini(ctx context.Context, gender, query string) ([]genealogy.MiniMember, error) {
	return []genealogy.MiniMember{{ID: 1, Name: query, Gender: gender}}, nil
}

func (m *mockAPI) CreateContact(ctx context.Context, p genealogy.ContactPayload) (int, error) {
	m.calls.CreateContact++
	m.lastContact = p
	return m.contactID, nil
}

func (m *mockAPI) UpdateContact(ctx context.Context, contactID int, p genealogy.ContactPayload) error {
	m.calls.UpdateContact++
	m.updatedContactID = contactID
	m.lastContact = p
	return nil
}

func (m *mockAPI) CreateEmployment(ctx context.Context, p genealogy.EmploymentPayload) (int, error) {
	m.calls.CreateEmployment++
	m.lastEmployment = p
	return m.employmentID, nil
}

func (m *mockAPI) UpdateEmployment(ctx context.Context, employmentID int, p genealogy.EmploymentPayload) error {
	m.calls.UpdateEmployment++
	m.updatedEmployment = employmentID
	m.lastEmployment = p
	return nil
}

func (m *mockAPI) MemberPreview(ctx context.Context, headUUID uuid.UUID, memberID int) (genealogy.MemberPreview, error) {
	return genealogy.MemberPreview{ID: memberID, Name: "Jane Doe", HeadBranch: "Mattackal"}, nil
}

func quietBus() eventbus.EventBus {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(logger)
}

func testWizard(api GenealogyAPI) *Wizard {
	return newWizard("session-1", api, sessionstore.NewMemoryStore(), quietBus())
}

func validFamilyDetails() registration.FamilyDetails {
	return registration.FamilyDetails{HeadOfFamilyName: "New Head X", BranchID: "1"}
}

func validPersonalDetails() registration.PersonalDetails {
	return registration.PersonalDetails{
		MemberName:  "Jane Doe",
		Gender:      "Female",
		DateOfBirth: "1990-04-01",
		IsDeceased:  "No",
	}
}

func validContactInfo() registration.ContactInfo {
	return registration.ContactInfo{
		ContactNumber:  "+1 555-0100",
		WhatsappNumber: "+1 555-0100",
		Email:          "jane@example.com",
	}
}

func validEmployment() registration.Employment {
	return registration.Employment{JobStatus: "Not Working"}
}

func TestWizard_GoNext_ValidationBlocksAdvance(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)

	assert.False(t, outcome.Advanced)
	assert.Equal(t, registration.StepFamilyDetails, outcome.Step)
	assert.Contains(t, outcome.ValidationErrors, "HeadOfFamilyName")
	assert.Contains(t, outcome.ValidationErrors, "BranchID")
	assert.Zero(t, api.calls.CreateHead, "invalid step must not reach the network")
}

func TestWizard_GoNext_CreatesHeadAndAdvances(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)

	assert.True(t, outcome.Advanced)
	assert.Equal(t, registration.StepPersonalDetails, outcome.Step)
	assert.Equal(t, 1, api.calls.CreateHead)
	assert.Equal(t, "New Head X", api.lastHeadName)
	assert.Equal(t, "1", api.lastHeadBranch)

	state := w.State()
	assert.True(t, state.Head.IsKnown())
	assert.Equal(t, api.headUUID, state.Head.UUID)
}

func TestWizard_GoNext_SkipsNetworkWhenUnchanged(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	_, err := w.GoNext(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, api.calls.CreateHead)

	w.GoPrevious(ctx)
	require.Equal(t, registration.StepFamilyDetails, w.State().CurrentStep)

	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)

	assert.True(t, outcome.Advanced)
	assert.True(t, outcome.SkippedNetwork)
	assert.Equal(t, 1, api.calls.CreateHead, "unchanged revisit must not re-submit")
	assert.Zero(t, api.calls.UpdateHead)
}

func TestWizard_GoNext_ResubmitsAsUpdate(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	_, err := w.GoNext(ctx)
	require.NoError(t, err)

	w.GoPrevious(ctx)
	fd := validFamilyDetails()
	fd.HeadOfFamilyName = "New Head Y"
	w.UpdateFamilyDetails(ctx, fd)

	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)

	assert.True(t, outcome.Advanced)
	assert.False(t, outcome.SkippedNetwork)
	assert.Equal(t, 1, api.calls.CreateHead)
	assert.Equal(t, 1, api.calls.UpdateHead)
	assert.Equal(t, api.headUUID, api.updatedHeadUUID, "update must target the stored identifier")
	assert.Equal(t, "New Head Y", api.lastHeadName)
}

func TestWizard_SelectHead_SkipsCreate(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	existing := uuid.New()
	w.UpdateFamilyDetails(ctx, registration.FamilyDetails{BranchID: "1", HeadOfFamilyName: "Exi"})
	w.SelectHead(ctx, existing, "Existing Head")

	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)

	assert.True(t, outcome.Advanced)
	assert.Zero(t, api.calls.CreateHead, "a selected head is already persisted")
	assert.Equal(t, existing, w.State().Head.UUID)
	assert.Equal(t, "Existing Head", w.State().Draft.FamilyDetails.HeadOfFamilyName)
}

func TestWizard_BranchChangeInvalidatesHead(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	w.SelectHead(ctx, uuid.New(), "Existing Head")
	require.True(t, w.State().Head.IsKnown())

	fd := w.State().Draft.FamilyDetails
	fd.BranchID = "2"
	w.UpdateFamilyDetails(ctx, fd)

	assert.False(t, w.State().Head.IsKnown(), "heads are namespaced per branch")
}

func TestWizard_TypingOverSelectionRevertsToCreate(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	w.SelectHead(ctx, uuid.New(), "Existing Head")

	fd := w.State().Draft.FamilyDetails
	fd.HeadOfFamilyName = "Someone Else"
	w.UpdateFamilyDetails(ctx, fd)

	require.False(t, w.State().Head.IsKnown())
	_, err := w.GoNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls.CreateHead, "edited name becomes a new head again")
}

func TestWizard_DeceasedBranchSkipsToPreview(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	_, err := w.GoNext(ctx)
	require.NoError(t, err)

	pd := validPersonalDetails()
	pd.IsDeceased = "Yes"
	pd.DateOfDeath = "2020-01-01"
	w.UpdatePersonalDetails(ctx, pd)

	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, registration.StepPreview, outcome.Step, "deceased members have no contact or employment steps")

	back := w.GoPrevious(ctx)
	assert.Equal(t, registration.StepPersonalDetails, back.Step)
}

func TestWizard_GoToStep_BoundedByMaxStep(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	// alive: all five steps reachable
	_, err := w.GoToStep(ctx, registration.StepPreview)
	require.NoError(t, err)

	pd := validPersonalDetails()
	pd.IsDeceased = "Yes"
	pd.DateOfDeath = "2020-01-01"
	w.UpdatePersonalDetails(ctx, pd)

	_, err = w.GoToStep(ctx, registration.StepEmployment)
	assert.ErrorIs(t, err, ErrBadStep)
	_, err = w.GoToStep(ctx, registration.Step(0))
	assert.ErrorIs(t, err, ErrBadStep)
	_, err = w.GoToStep(ctx, registration.StepContactInfo)
	require.NoError(t, err)
}

func TestWizard_ChildrenResizePreservesPrefix(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	pd := validPersonalDetails()
	pd.NumberOfChildren = 3
	pd.Children = []registration.Child{
		{Name: "A", Gender: "Son"},
		{Name: "B", Gender: "Daughter"},
		{Name: "C", Gender: "Son"},
	}
	w.UpdatePersonalDetails(ctx, pd)

	pd = w.State().Draft.PersonalDetails
	pd.NumberOfChildren = 1
	w.UpdatePersonalDetails(ctx, pd)
	children := w.State().Draft.PersonalDetails.Children
	require.Len(t, children, 1)
	assert.Equal(t, "A", children[0].Name)

	pd = w.State().Draft.PersonalDetails
	pd.NumberOfChildren = 3
	w.UpdatePersonalDetails(ctx, pd)
	children = w.State().Draft.PersonalDetails.Children
	require.Len(t, children, 3)
	assert.Equal(t, "A", children[0].Name)
	assert.Empty(t, children[1].Name)
	assert.Empty(t, children[2].Name)
}

func TestWizard_ContactStepRequiresSavedMember(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	_, err := w.GoToStep(ctx, registration.StepContactInfo)
	require.NoError(t, err)
	w.UpdateContactInfo(ctx, validContactInfo())

	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)

	assert.False(t, outcome.Advanced)
	assert.Equal(t, msgMemberRequired, outcome.ErrorMessage)
	assert.Zero(t, api.calls.CreateContact)
}

func TestWizard_SubmitErrorSurfacesAPIMessage(t *testing.T) {
	api := newMockAPI()
	api.createHeadErr = &genealogy.APIError{
		Status:  400,
		Message: "head_name: A head with this name already exists. You can try a different name, or select the existing entry from the search results.",
	}
	w := testWizard(api)
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)

	assert.False(t, outcome.Advanced)
	assert.Equal(t, registration.StepFamilyDetails, outcome.Step)
	assert.Contains(t, outcome.ErrorMessage, "already exists")
	assert.False(t, w.State().Busy, "the busy gate must release after a failed submit")
}

func TestWizard_SubmitErrorFallsBackToConnectivityMessage(t *testing.T) {
	api := newMockAPI()
	api.createHeadErr = context.DeadlineExceeded
	w := testWizard(api)
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)

	assert.Equal(t, msgConnectivity, outcome.ErrorMessage)
}

func TestWizard_BusyGateRejectsOverlap(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	w.mu.Lock()
	w.busy = true
	w.mu.Unlock()

	_, err := w.GoNext(ctx)
	assert.ErrorIs(t, err, ErrWizardBusy)
	_, err = w.Submit(ctx)
	assert.ErrorIs(t, err, ErrWizardBusy)
}

func TestWizard_FullFlowAndFinalSubmit(t *testing.T) {
	api := newMockAPI()
	store := sessionstore.NewMemoryStore()
	w := newWizard("session-1", api, store, quietBus())
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)
	require.Equal(t, registration.StepPersonalDetails, outcome.Step)

	w.UpdatePersonalDetails(ctx, validPersonalDetails())
	outcome, err = w.GoNext(ctx)
	require.NoError(t, err)
	require.Equal(t, registration.StepContactInfo, outcome.Step)
	require.Equal(t, 42, w.State().MemberID)
	assert.Equal(t, api.headUUID, api.lastMember.HeadUUID)

	w.UpdateContactInfo(ctx, validContactInfo())
	outcome, err = w.GoNext(ctx)
	require.NoError(t, err)
	require.Equal(t, registration.StepEmployment, outcome.Step)
	require.Equal(t, 7, w.State().ContactID)
	assert.Equal(t, 42, api.lastContact.MemberID)

	w.UpdateEmployment(ctx, validEmployment())
	outcome, err = w.GoNext(ctx)
	require.NoError(t, err)
	require.Equal(t, registration.StepPreview, outcome.Step)
	require.Equal(t, 9, w.State().EmploymentID)
	assert.Equal(t, "Not Working", api.lastEmployment.JobStatus)

	outcome, err = w.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, registration.StepFamilyDetails, outcome.Step)

	state := w.State()
	assert.Equal(t, registration.StepFamilyDetails, state.CurrentStep)
	assert.Empty(t, state.Completed)
	assert.Zero(t, state.MemberID)
	assert.False(t, state.Head.IsKnown())
	assert.Empty(t, state.Draft.FamilyDetails.HeadOfFamilyName)

	_, found, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, found, "final submit clears the durable snapshot")
}

func TestWizard_EditedPersonalDetailsUpdateSameRecord(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	w.UpdateFamilyDetails(ctx, validFamilyDetails())
	_, err := w.GoNext(ctx)
	require.NoError(t, err)
	w.UpdatePersonalDetails(ctx, validPersonalDetails())
	_, err = w.GoNext(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, api.calls.CreateMember)

	_, err = w.GoToStep(ctx, registration.StepPersonalDetails)
	require.NoError(t, err)
	pd := w.State().Draft.PersonalDetails
	pd.MotherName = "Mary Doe"
	w.UpdatePersonalDetails(ctx, pd)

	_, err = w.GoNext(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, api.calls.CreateMember)
	assert.Equal(t, 1, api.calls.UpdateMember)
	assert.Equal(t, 42, api.updatedMemberID)
	assert.Equal(t, "Mary Doe", api.lastMember.MotherName)
}

func TestWizard_PreviewStepGoNextIsNoOp(t *testing.T) {
	api := newMockAPI()
	w := testWizard(api)
	ctx := context.Background()

	_, err := w.GoToStep(ctx, registration.StepPreview)
	require.NoError(t, err)

	outcome, err := w.GoNext(ctx)
	require.NoError(t, err)
	assert.False(t, outcome.Advanced)
	assert.Equal(t, registration.StepPreview, outcome.Step)
}
