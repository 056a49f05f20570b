package registration

// MaxPhotoBytes caps uploaded photo attachments.
const MaxPhotoBytes = 5 << 20

type Photo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

type FamilyDetails struct {
	HeadOfFamilyName string `json:"headOfFamilyName" validate:"required"`
	BranchID         string `json:"branchId" validate:"required"`
}

type Child struct {
	Name   string `json:"name" validate:"required"`
	Gender string `json:"gender" validate:"required,oneof=Son Daughter"`
}

type PersonalDetails struct {
	MemberName         string  `json:"memberName" validate:"required"`
	Gender             string  `json:"gender" validate:"required,oneof=Male Female Other"`
	DateOfBirth        string  `json:"dateOfBirth" validate:"required"`
	IsDeceased         string  `json:"isDeceased" validate:"omitempty,oneof=Yes No"`
	DateOfDeath        string  `json:"dateOfDeath" validate:"required_if=IsDeceased Yes"`
	MaritalStatus      string  `json:"maritalStatus" validate:"omitempty,oneof=Single Married"`
	SpouseName         string  `json:"spouseName" validate:"required_if=MaritalStatus Married"`
	WeddingAnniversary string  `json:"weddingAnniversary" validate:"required_if=MaritalStatus Married"`
	FatherName         string  `json:"fatherName"`
	MotherName         string  `json:"motherName"`
	NumberOfChildren   int     `json:"numberOfChildren" validate:"gte=0"`
	Children           []Child `json:"children" validate:"dive"`
	PersonalPhoto      *Photo  `json:"personalPhoto,omitempty"`
	FamilyPhoto        *Photo  `json:"familyPhoto,omitempty"`
}

type ContactInfo struct {
	ContactNumber  string `json:"contactNumber" validate:"required,phone"`
	WhatsappNumber string `json:"whatsappNumber" validate:"required,phone"`
	Email          string `json:"email" validate:"omitempty,email"`
	Location       string `json:"location"`
}

type Employment struct {
	JobStatus    string `json:"jobStatus" validate:"required,oneof=Working Retired 'Not Working'"`
	CompanyName  string `json:"companyName" validate:"required_if=JobStatus Working"`
	Designation  string `json:"designation" validate:"required_if=JobStatus Working"`
	WorkLocation string `json:"workLocation"`
}

// Draft is the in-progress registration, assembled step by step and held
// entirely on this side until each step's submit succeeds.
type Draft struct {
	FamilyDetails   FamilyDetails   `json:"familyDetails"`
	PersonalDetails PersonalDetails `json:"personalDetails"`
	ContactInfo     ContactInfo     `json:"contactInfo"`
	Employment      Employment      `json:"employment"`
}

func NewDraft() Draft {
	return Draft{}
}

// Alive reports the branch condition driving the step sequence.
func (d Draft) Alive() bool {
	return d.PersonalDetails.IsDeceased != "Yes"
}

func (p PersonalDetails) clone() PersonalDetails {
	out := p
	out.Children = append([]Child(nil), p.Children...)
	out.PersonalPhoto = p.PersonalPhoto.clone()
	out.FamilyPhoto = p.FamilyPhoto.clone()
	return out
}

func (ph *Photo) clone() *Photo {
	if ph == nil {
		return nil
	}
	out := *ph
	out.Content = append([]byte(nil), ph.Content...)
	return &out
}

func (d Draft) Clone() Draft {
	out := d
	out.PersonalDetails = d.PersonalDetails.clone()
	return out
}

// Slice returns a deep copy of the sub-form owned by the given step, used
// for change detection against the last persisted snapshot. The preview
// step owns no slice.
func (d Draft) Slice(step Step) any {
	switch step {
	case StepFamilyDetails:
		return d.FamilyDetails
	case StepPersonalDetails:
		return d.PersonalDetails.clone()
	case StepContactInfo:
		return d.ContactInfo
	case StepEmployment:
		return d.Employment
	default:
		return nil
	}
}
