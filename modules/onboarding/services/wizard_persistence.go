package services

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/mattackal/family-onboarding/modules/onboarding/domain/registration"
)

// wizardSnapshot is the single durable object the session store holds:
// the draft, the position, the per-step persisted slices and every
// resolved identifier, written together and read back atomically.
type wizardSnapshot struct {
	CurrentStep        registration.Step             `json:"currentStep"`
	Draft              registration.Draft            `json:"draft"`
	Completed          []registration.Step           `json:"completed"`
	FamilySnapshot     *registration.FamilyDetails   `json:"familySnapshot,omitempty"`
	PersonalSnapshot   *registration.PersonalDetails `json:"personalSnapshot,omitempty"`
	ContactSnapshot    *registration.ContactInfo     `json:"contactSnapshot,omitempty"`
	EmploymentSnapshot *registration.Employment      `json:"employmentSnapshot,omitempty"`
	Head               registration.HeadReference    `json:"head"`
	HeadSelected       bool                          `json:"headSelected"`
	MemberID           int                           `json:"memberId"`
	ContactID          int                           `json:"contactId"`
	EmploymentID       int                           `json:"employmentId"`
}

func (w *Wizard) snapshotLocked() wizardSnapshot {
	snap := wizardSnapshot{
		CurrentStep:  w.current,
		Draft:        w.draft.Clone(),
		Head:         w.head,
		HeadSelected: w.headSelected,
		MemberID:     w.memberID,
		ContactID:    w.contactID,
		EmploymentID: w.employmentID,
	}
	for s := registration.StepFamilyDetails; s <= registration.StepPreview; s++ {
		if w.completed[s] {
			snap.Completed = append(snap.Completed, s)
		}
	}
	if v, ok := w.snapshots[registration.StepFamilyDetails].(registration.FamilyDetails); ok {
		snap.FamilySnapshot = &v
	}
	if v, ok := w.snapshots[registration.StepPersonalDetails].(registration.PersonalDetails); ok {
		snap.PersonalSnapshot = &v
	}
	if v, ok := w.snapshots[registration.StepContactInfo].(registration.ContactInfo); ok {
		snap.ContactSnapshot = &v
	}
	if v, ok := w.snapshots[registration.StepEmployment].(registration.Employment); ok {
		snap.EmploymentSnapshot = &v
	}
	return snap
}

func (w *Wizard) restore(snap wizardSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = snap.CurrentStep
	if w.current < registration.StepFamilyDetails || w.current > registration.StepPreview {
		w.current = registration.StepFamilyDetails
	}
	w.draft = snap.Draft
	w.draft.PersonalDetails.Children = registration.ResizeChildren(
		w.draft.PersonalDetails.Children,
		w.draft.PersonalDetails.NumberOfChildren,
	)
	w.completed = map[registration.Step]bool{}
	for _, s := range snap.Completed {
		w.completed[s] = true
	}
	// run restored slices through Draft.Slice so empty-vs-nil slice shapes
	// compare equal against live drafts
	w.snapshots = map[registration.Step]any{}
	if snap.FamilySnapshot != nil {
		d := registration.Draft{FamilyDetails: *snap.FamilySnapshot}
		w.snapshots[registration.StepFamilyDetails] = d.Slice(registration.StepFamilyDetails)
	}
	if snap.PersonalSnapshot != nil {
		d := registration.Draft{PersonalDetails: *snap.PersonalSnapshot}
		w.snapshots[registration.StepPersonalDetails] = d.Slice(registration.StepPersonalDetails)
	}
	if snap.ContactSnapshot != nil {
		d := registration.Draft{ContactInfo: *snap.ContactSnapshot}
		w.snapshots[registration.StepContactInfo] = d.Slice(registration.StepContactInfo)
	}
	if snap.EmploymentSnapshot != nil {
		d := registration.Draft{Employment: *snap.EmploymentSnapshot}
		w.snapshots[registration.StepEmployment] = d.Slice(registration.StepEmployment)
	}
	w.head = snap.Head
	w.headSelected = snap.HeadSelected
	w.memberID = snap.MemberID
	w.contactID = snap.ContactID
	w.employmentID = snap.EmploymentID
}

// persistLocked writes the whole snapshot; resume must never observe a
// partially updated store. Failures are logged by the caller's store, not
// fatal: the in-memory wizard stays authoritative for the session.
func (w *Wizard) persistLocked(ctx context.Context) {
	data, err := json.Marshal(w.snapshotLocked())
	if err != nil {
		return
	}
	_ = w.store.Save(ctx, w.sessionID, data)
}
