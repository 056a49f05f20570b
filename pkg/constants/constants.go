package constants

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	AppKey       contextKey = "app"
	LoggerKey    contextKey = "logger"
	SessionKey   contextKey = "sid"
	RequestStart contextKey = "requestStart"
)

// permissive: optional leading +, then digits with spaces, hyphens or parentheses
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]*$`)

var Validate = func() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}()
