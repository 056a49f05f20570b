package genealogy

import "github.com/google/uuid"

type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type HeadRecord struct {
	UUID     uuid.UUID `json:"uuid"`
	HeadName string    `json:"head_name"`
}

type createHeadRequest struct {
	Branch   string `json:"branch"`
	HeadName string `json:"head_name"`
}

// MemberPayload carries every personal-details field of the multipart
// member create/update request. Children is serialized into a single JSON
// string part, matching the backend contract.
type MemberPayload struct {
	Name               string
	IsDeceased         string
	Gender             string
	DateOfBirth        string
	HeadUUID           uuid.UUID
	DateOfDeath        string
	MaritalStatus      string
	SpouseName         string
	WeddingAnniversary string
	FatherName         string
	MotherName         string
	NumberOfChildren   int
	ChildrenJSON       string
	PersonalPhoto      *Attachment
	FamilyPhoto        *Attachment
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type ContactPayload struct {
	MemberID       int    `json:"member_id"`
	PhoneNumber    string `json:"phone_number"`
	WhatsappNumber string `json:"whatsapp_number"`
	Email          string `json:"email"`
	Address        string `json:"address"`
}

type EmploymentPayload struct {
	MemberID     int    `json:"member_id"`
	JobStatus    string `json:"job_status"`
	CompanyName  string `json:"company_name"`
	Designation  string `json:"designation"`
	WorkLocation string `json:"work_location"`
}

type idResponse struct {
	Data struct {
		ID int `json:"id"`
	} `json:"data"`
}

type MiniMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
	SpouseName  string `json:"spouse_name,omitempty"`
}

type PreviewContact struct {
	ID             int    `json:"id"`
	PhoneNumber    string `json:"phone_number"`
	WhatsappNumber string `json:"whatsapp_number"`
	Email          string `json:"email"`
	Address        string `json:"address"`
}

type PreviewEmployment struct {
	ID           int    `json:"id"`
	JobStatus    string `json:"job_status"`
	CompanyName  string `json:"company_name"`
	Designation  string `json:"designation"`
	WorkLocation string `json:"work_location"`
}

// MemberPreview is the full composite record for the preview step.
type MemberPreview struct {
	ID                 int                 `json:"id"`
	Name               string              `json:"name"`
	Gender             string              `json:"gender"`
	DateOfBirth        string              `json:"date_of_birth"`
	IsDeceased         string              `json:"is_deceased"`
	DateOfDeath        string              `json:"date_of_death"`
	MaritalStatus      string              `json:"marital_status"`
	SpouseName         string              `json:"spouse_name"`
	WeddingAnniversary string              `json:"wedding_anniversary"`
	FatherName         string              `json:"father_name"`
	MotherName         string              `json:"mother_name"`
	NumberOfChildren   int                 `json:"number_of_children"`
	HeadBranch         string              `json:"head_branch"`
	Contacts           []PreviewContact    `json:"contacts"`
	Employments        []PreviewEmployment `json:"employments"`
}
