package viewmodels

// Viewmodels are the JSON shapes the browser consumes; photo bytes never
// travel back out, only their metadata.

type StepIndicator struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Current     bool   `json:"current"`
}

type PhotoInfo struct {
	Filename string `json:"filename"`
	Size     int    `json:"size"`
}

type ChildEntry struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

type FamilyDetails struct {
	HeadOfFamilyName string `json:"headOfFamilyName"`
	BranchID         string `json:"branchId"`
}

type PersonalDetails struct {
	MemberName         string       `json:"memberName"`
	Gender             string       `json:"gender"`
	DateOfBirth        string       `json:"dateOfBirth"`
	IsDeceased         string       `json:"isDeceased"`
	DateOfDeath        string       `json:"dateOfDeath"`
	MaritalStatus      string       `json:"maritalStatus"`
	SpouseName         string       `json:"spouseName"`
	WeddingAnniversary string       `json:"weddingAnniversary"`
	FatherName         string       `json:"fatherName"`
	MotherName         string       `json:"motherName"`
	NumberOfChildren   int          `json:"numberOfChildren"`
	Children           []ChildEntry `json:"children"`
	PersonalPhoto      *PhotoInfo   `json:"personalPhoto,omitempty"`
	FamilyPhoto        *PhotoInfo   `json:"familyPhoto,omitempty"`
}

type ContactInfo struct {
	ContactNumber  string `json:"contactNumber"`
	WhatsappNumber string `json:"whatsappNumber"`
	Email          string `json:"email"`
	Location       string `json:"location"`
}

type Employment struct {
	JobStatus    string `json:"jobStatus"`
	CompanyName  string `json:"companyName"`
	Designation  string `json:"designation"`
	WorkLocation string `json:"workLocation"`
}

type Draft struct {
	FamilyDetails   FamilyDetails   `json:"familyDetails"`
	PersonalDetails PersonalDetails `json:"personalDetails"`
	ContactInfo     ContactInfo     `json:"contactInfo"`
	Employment      Employment      `json:"employment"`
}

type Identifiers struct {
	HeadUUID     string `json:"headUuid,omitempty"`
	MemberID     int    `json:"memberId,omitempty"`
	ContactID    int    `json:"contactId,omitempty"`
	EmploymentID int    `json:"employmentId,omitempty"`
}

type WizardState struct {
	CurrentStep int             `json:"currentStep"`
	MaxStep     int             `json:"maxStep"`
	Alive       bool            `json:"alive"`
	Progress    int             `json:"progress"`
	Busy        bool            `json:"busy"`
	Steps       []StepIndicator `json:"steps"`
	Draft       Draft           `json:"draft"`
	Identifiers Identifiers     `json:"identifiers"`
}

type HeadCandidate struct {
	UUID     string `json:"uuid"`
	HeadName string `json:"headName"`
}
