// Package validation holds the custom request validators and turns
// validator errors into field maps for API responses.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var notISBNChars = regexp.MustCompile(`[^0-9X]`)

// IsValidISBN reports whether s holds 10 or 13 ISBN characters once
// everything but digits and X is stripped. Check digits are not verified.
func IsValidISBN(s string) bool {
	n := len(notISBNChars.ReplaceAllString(s, ""))
	return n == 10 || n == 13
}

func validateISBN(fl validator.FieldLevel) bool {
	return IsValidISBN(fl.Field().String())
}

// validatePastDate accepts a time.Time or a DateLayout string strictly
// before today. Unparseable strings fail.
func validatePastDate(fl validator.FieldLevel) bool {
	field := fl.Field()

	var date time.Time
	switch v := field.Interface().(type) {
	case time.Time:
		date = v
	case string:
		parsed, err := time.Parse(DateLayout, v)
		if err != nil {
			return false
		}
		date = parsed
	default:
		return false
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	return date.Before(today)
}

// Register adds the isbn and pastdate tags to v and reports JSON field
// names in errors.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("isbn", validateISBN); err != nil {
		return err
	}
	return v.RegisterValidation("pastdate", validatePastDate)
}

// RegisterWithGin installs the custom validators on gin's binding engine.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// FieldErrors maps each failed field to the tag it failed. It returns nil
// for errors that are not validation errors.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	out := make(map[string]string, len(validationErrors))
	for _, ve := range validationErrors {
		out[ve.Field()] = ve.Tag()
	}
	return out
}
