package registration

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mattackal/family-onboarding/pkg/constants"
)

// ValidateStep runs the step's validator over its slice of the draft.
// An empty map means the step may be submitted. The preview step has no
// validator of its own.
func ValidateStep(step Step, d Draft) map[string]string {
	switch step {
	case StepFamilyDetails:
		return validateFamilyDetails(d.FamilyDetails)
	case StepPersonalDetails:
		return validatePersonalDetails(d.PersonalDetails)
	case StepContactInfo:
		return validateContactInfo(d.ContactInfo)
	case StepEmployment:
		return validateEmployment(d.Employment)
	default:
		return map[string]string{}
	}
}

func validateFamilyDetails(fd FamilyDetails) map[string]string {
	fd.HeadOfFamilyName = strings.TrimSpace(fd.HeadOfFamilyName)
	return collect(constants.Validate.Struct(fd))
}

func validatePersonalDetails(pd PersonalDetails) map[string]string {
	errs := collect(constants.Validate.Struct(pd))
	if len(pd.Children) != pd.NumberOfChildren {
		errs["Children"] = fmt.Sprintf("expected %d children, got %d", pd.NumberOfChildren, len(pd.Children))
	}
	if pd.PersonalPhoto != nil && len(pd.PersonalPhoto.Content) > MaxPhotoBytes {
		errs["PersonalPhoto"] = "Personal photo must be 5MB or smaller"
	}
	if pd.FamilyPhoto != nil && len(pd.FamilyPhoto.Content) > MaxPhotoBytes {
		errs["FamilyPhoto"] = "Family photo must be 5MB or smaller"
	}
	return errs
}

func validateContactInfo(ci ContactInfo) map[string]string {
	return collect(constants.Validate.Struct(ci))
}

func validateEmployment(e Employment) map[string]string {
	return collect(constants.Validate.Struct(e))
}

func collect(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fieldKey(fe)] = message(fe)
	}
	return out
}

// fieldKey flattens nested children entries to e.g. "Children[1].Name".
func fieldKey(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required", "required_if":
		return label + " is required"
	case "oneof":
		return label + " must be one of: " + fe.Param()
	case "email":
		return label + " must be a valid email address"
	case "phone":
		return label + " must be a valid phone number"
	case "gte":
		return label + " must be at least " + fe.Param()
	default:
		return label + " is invalid"
	}
}

func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
