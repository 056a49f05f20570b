package dtos

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mattackal/family-onboarding/modules/onboarding/domain/registration"
	"github.com/mattackal/family-onboarding/pkg/constants"
)

// Step-slice DTOs deliberately carry no validate tags: a draft may be
// incomplete while the user is still typing. Step validation happens in
// the wizard when Next is requested.

type FamilyDetailsDTO struct {
	HeadOfFamilyName string `json:"headOfFamilyName"`
	BranchID         string `json:"branchId"`
}

func (dto *FamilyDetailsDTO) ToDomain() registration.FamilyDetails {
	return registration.FamilyDetails{
		HeadOfFamilyName: dto.HeadOfFamilyName,
		BranchID:         dto.BranchID,
	}
}

type ChildDTO struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

type PhotoDTO struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

type PersonalDetailsDTO struct {
	MemberName         string     `json:"memberName"`
	Gender             string     `json:"gender"`
	DateOfBirth        string     `json:"dateOfBirth"`
	IsDeceased         string     `json:"isDeceased"`
	DateOfDeath        string     `json:"dateOfDeath"`
	MaritalStatus      string     `json:"maritalStatus"`
	SpouseName         string     `json:"spouseName"`
	WeddingAnniversary string     `json:"weddingAnniversary"`
	FatherName         string     `json:"fatherName"`
	MotherName         string     `json:"motherName"`
	NumberOfChildren   int        `json:"numberOfChildren"`
	Children           []ChildDTO `json:"children"`
	PersonalPhoto      *PhotoDTO  `json:"personalPhoto"`
	FamilyPhoto        *PhotoDTO  `json:"familyPhoto"`
}

func (dto *PersonalDetailsDTO) ToDomain() registration.PersonalDetails {
	children := make([]registration.Child, 0, len(dto.Children))
	for _, c := range dto.Children {
		children = append(children, registration.Child{Name: c.Name, Gender: c.Gender})
	}
	return registration.PersonalDetails{
		MemberName:         dto.MemberName,
		Gender:             dto.Gender,
		DateOfBirth:        dto.DateOfBirth,
		IsDeceased:         dto.IsDeceased,
		DateOfDeath:        dto.DateOfDeath,
		MaritalStatus:      dto.MaritalStatus,
		SpouseName:         dto.SpouseName,
		WeddingAnniversary: dto.WeddingAnniversary,
		FatherName:         dto.FatherName,
		MotherName:         dto.MotherName,
		NumberOfChildren:   dto.NumberOfChildren,
		Children:           children,
		PersonalPhoto:      photoToDomain(dto.PersonalPhoto),
		FamilyPhoto:        photoToDomain(dto.FamilyPhoto),
	}
}

func photoToDomain(p *PhotoDTO) *registration.Photo {
	if p == nil {
		return nil
	}
	return &registration.Photo{
		Filename:    p.Filename,
		ContentType: p.ContentType,
		Content:     p.Content,
	}
}

type ContactInfoDTO struct {
	ContactNumber  string `json:"contactNumber"`
	WhatsappNumber string `json:"whatsappNumber"`
	Email          string `json:"email"`
	Location       string `json:"location"`
}

func (dto *ContactInfoDTO) ToDomain() registration.ContactInfo {
	return registration.ContactInfo{
		ContactNumber:  dto.ContactNumber,
		WhatsappNumber: dto.WhatsappNumber,
		Email:          dto.Email,
		Location:       dto.Location,
	}
}

type EmploymentDTO struct {
	JobStatus    string `json:"jobStatus"`
	CompanyName  string `json:"companyName"`
	Designation  string `json:"designation"`
	WorkLocation string `json:"workLocation"`
}

func (dto *EmploymentDTO) ToDomain() registration.Employment {
	return registration.Employment{
		JobStatus:    dto.JobStatus,
		CompanyName:  dto.CompanyName,
		Designation:  dto.Designation,
		WorkLocation: dto.WorkLocation,
	}
}

// SelectHeadDTO fixes a search candidate, so both fields must be present.
type SelectHeadDTO struct {
	UUID string `json:"uuid" validate:"required,uuid4"`
	Name string `json:"name" validate:"required"`
}

func (dto *SelectHeadDTO) Ok() (map[string]string, bool) {
	errorMessages := map[string]string{}
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return errorMessages, true
	}
	for _, err := range errs.(validator.ValidationErrors) {
		errorMessages[err.Field()] = err.Field() + " is missing or malformed"
	}
	return errorMessages, len(errorMessages) == 0
}

func (dto *SelectHeadDTO) HeadUUID() uuid.UUID {
	id, err := uuid.Parse(dto.UUID)
	if err != nil {
		return uuid.Nil
	}
	return id
}
