package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":       "{field} is required",
		"required_with":  "{field} is required when {param} is set",
		"excluded_with":  "{field} must be empty when {param} is set",
		"gte":            "{field} must be greater than or equal to {param}",
		"lte":            "{field} must be less than or equal to {param}",
		"gt":             "{field} must be greater than {param}",
		"oneof":          "{field} must be one of {param}",
		"max":            "{field} must be less than or equal to {param}",
		"min":            "{field} must be greater than or equal to {param}",
		"email":          "{field} must be a valid email address",
		"uuid":           "{field} must be a valid UUID",
		"unique":         "{field} must not contain duplicates",
		"day":            "{field} must be a date formatted as YYYY-MM-DD",
		"timezone":       "{field} must be an IANA timezone name",
		"booking_status": "{field} must be one of tentative reserved checked_in checked_out cancelled",
		"room_status":    "{field} must be one of available occupied dirty out_of_service",
		"mimetypes":      "{field} must be one of {param}",
		"maxfilesize":    "{field} must not exceed {param} MB",
	}
)

// message renders the first failed rule of err as a human readable sentence.
func message(err error) string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, valErr := range valErrors {
		tmpl := messages[valErr.Tag()]
		if tmpl == "" {
			continue
		}

		return strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param()).Replace(tmpl)
	}

	return valErrors.Error()
}
