package mappers

import (
	"github.com/mattackal/family-onboarding/modules/onboarding/domain/registration"
	"github.com/mattackal/family-onboarding/modules/onboarding/infrastructure/genealogy"
	"github.com/mattackal/family-onboarding/modules/onboarding/presentation/viewmodels"
	"github.com/mattackal/family-onboarding/modules/onboarding/services"
)

func WizardStateToViewModel(state services.State) *viewmodels.WizardState {
	completed := map[registration.Step]bool{}
	for _, s := range state.Completed {
		completed[s] = true
	}

	steps := make([]viewmodels.StepIndicator, 0, len(registration.Steps))
	for _, info := range registration.Steps {
		// deceased branch shows only the two data steps and the preview
		if !state.Alive && info.ID > registration.StepPersonalDetails && info.ID != registration.StepPreview {
			continue
		}
		steps = append(steps, viewmodels.StepIndicator{
			ID:          int(info.ID),
			Title:       info.Title,
			Description: info.Description,
			Completed:   completed[info.ID],
			Current:     info.ID == state.CurrentStep,
		})
	}

	vm := &viewmodels.WizardState{
		CurrentStep: int(state.CurrentStep),
		MaxStep:     int(state.MaxStep),
		Alive:       state.Alive,
		Progress:    state.Progress,
		Busy:        state.Busy,
		Steps:       steps,
		Draft:       draftToViewModel(state.Draft),
	}
	if state.Head.IsKnown() {
		vm.Identifiers.HeadUUID = state.Head.UUID.String()
	}
	vm.Identifiers.MemberID = state.MemberID
	vm.Identifiers.ContactID = state.ContactID
	vm.Identifiers.EmploymentID = state.EmploymentID
	return vm
}

func draftToViewModel(d registration.Draft) viewmodels.Draft {
	children := make([]viewmodels.ChildEntry, 0, len(d.PersonalDetails.Children))
	for _, c := range d.PersonalDetails.Children {
		children = append(children, viewmodels.ChildEntry{Name: c.Name, Gender: c.Gender})
	}
	return viewmodels.Draft{
		FamilyDetails: viewmodels.FamilyDetails{
			HeadOfFamilyName: d.FamilyDetails.HeadOfFamilyName,
			BranchID:         d.FamilyDetails.BranchID,
		},
		PersonalDetails: viewmodels.PersonalDetails{
			MemberName:         d.PersonalDetails.MemberName,
			Gender:             d.PersonalDetails.Gender,
			DateOfBirth:        d.PersonalDetails.DateOfBirth,
			IsDeceased:         d.PersonalDetails.IsDeceased,
			DateOfDeath:        d.PersonalDetails.DateOfDeath,
			MaritalStatus:      d.PersonalDetails.MaritalStatus,
			SpouseName:         d.PersonalDetails.SpouseName,
			WeddingAnniversary: d.PersonalDetails.WeddingAnniversary,
			FatherName:         d.PersonalDetails.FatherName,
			MotherName:         d.PersonalDetails.MotherName,
			NumberOfChildren:   d.PersonalDetails.NumberOfChildren,
			Children:           children,
			PersonalPhoto:      photoToViewModel(d.PersonalDetails.PersonalPhoto),
			FamilyPhoto:        photoToViewModel(d.PersonalDetails.FamilyPhoto),
		},
		ContactInfo: viewmodels.ContactInfo{
			ContactNumber:  d.ContactInfo.ContactNumber,
			WhatsappNumber: d.ContactInfo.WhatsappNumber,
			Email:          d.ContactInfo.Email,
			Location:       d.ContactInfo.Location,
		},
		Employment: viewmodels.Employment{
			JobStatus:    d.Employment.JobStatus,
			CompanyName:  d.Employment.CompanyName,
			Designation:  d.Employment.Designation,
			WorkLocation: d.Employment.WorkLocation,
		},
	}
}

func photoToViewModel(p *registration.Photo) *viewmodels.PhotoInfo {
	if p == nil {
		return nil
	}
	return &viewmodels.PhotoInfo{Filename: p.Filename, Size: len(p.Content)}
}

func HeadRecordsToViewModels(records []genealogy.HeadRecord) []viewmodels.HeadCandidate {
	out := make([]viewmodels.HeadCandidate, 0, len(records))
	for _, r := range records {
		out = append(out, viewmodels.HeadCandidate{UUID: r.UUID.String(), HeadName: r.HeadName})
	}
	return out
}
