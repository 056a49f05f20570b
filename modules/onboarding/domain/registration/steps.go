package registration

type Step int

const (
	StepFamilyDetails Step = iota + 1
	StepPersonalDetails
	StepContactInfo
	StepEmployment
	StepPreview
)

type StepInfo struct {
	ID          Step   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var Steps = []StepInfo{
	{StepFamilyDetails, "Family Details", "Head of family and branch information"},
	{StepPersonalDetails, "Personal Details", "Basic information and family relations"},
	{StepContactInfo, "Contact Information", "Phone, email, and location"},
	{StepEmployment, "Employment", "Work and career details"},
	{StepPreview, "Preview", "Review and submit"},
}

func (s Step) Info() StepInfo {
	if s < StepFamilyDetails || s > StepPreview {
		return StepInfo{}
	}
	return Steps[s-1]
}

// MaxStep bounds direct navigation: the deceased branch only exposes the
// first three positions (the preview is reached by the jump in Next, not
// by jumping to it directly), everyone else walks all five.
func MaxStep(alive bool) Step {
	if alive {
		return StepPreview
	}
	return StepContactInfo
}

// Next applies the step-advance rule. The deceased branch jumps from the
// personal-details step straight to the preview.
func Next(current Step, alive bool) Step {
	if current == StepPersonalDetails && !alive {
		return StepPreview
	}
	if current < MaxStep(alive) {
		return current + 1
	}
	return current
}

// Previous mirrors Next for backward navigation; it never persists.
func Previous(current Step, alive bool) Step {
	if current == StepPreview && !alive {
		return StepPersonalDetails
	}
	if current > StepFamilyDetails {
		return current - 1
	}
	return current
}

// Progress reports completion percent the way the original wizard did:
// the deceased branch measures against its three reachable steps.
func Progress(current Step, alive bool) int {
	if !alive {
		if current <= StepPersonalDetails {
			return int(float64(current) / 3 * 100)
		}
		return 100
	}
	return int(float64(current) / 5 * 100)
}
