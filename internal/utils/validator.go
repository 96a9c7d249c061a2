package utils

import (
	"net/http"
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var hhmmRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// RequestValidator adapts go-playground/validator to Echo's Validator
// interface and registers the custom rules used by the request DTOs.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds the validator with the "password" and
// "hhmm" rules registered.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	_ = v.RegisterValidation("password", validPassword)
	_ = v.RegisterValidation("hhmm", validHHMM)
	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator. Failures surface as HTTP 400
// before any handler logic runs.
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// validPassword enforces 8-30 characters with at least one letter and
// one digit, restricted to letters, digits and @$!%*?&.
func validPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 || len(s) > 30 {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == '@' || r == '$' || r == '!' || r == '%' || r == '*' || r == '?' || r == '&':
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}

// validHHMM enforces 24h "HH:mm" time strings.
func validHHMM(fl validator.FieldLevel) bool {
	return hhmmRe.MatchString(fl.Field().String())
}
