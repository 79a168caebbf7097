package entity

import (
	"net/url"
	"strings"

	apperrors "github.com/agenthub/agenthub/pkg/errors"
)

// requireText rejects empty or whitespace-only required string fields.
func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationErrorf("field %q is required", field)
	}
	return nil
}

// requireURL validates a mandatory http(s) URL.
func requireURL(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationErrorf("field %q is required", field)
	}
	return checkURL(field, value)
}

// optionalURL validates a URL field only when it is set.
func optionalURL(field, value string) error {
	if value == "" {
		return nil
	}
	return checkURL(field, value)
}

func checkURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewValidationErrorf("field %q is not a valid URL: %q", field, value)
	}
	return nil
}

func optionalEmail(field, value string) error {
	if value == "" {
		return nil
	}
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return apperrors.NewValidationErrorf("field %q is not a valid email address: %q", field, value)
	}
	return nil
}
