package domain

import (
	"errors"
	"strings"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
)

// Form field names, shared by every form front-end.
const (
	FieldName        = "name"
	FieldURL         = "url"
	FieldDescription = "description"
)

// FormData is what a user typed into the bookmark form.
type FormData struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// FieldErrors lists every invalid field of a submitted form.
type FieldErrors []*apperror.AppError

func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, e := range fe {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (fe FieldErrors) Unwrap() []error {
	errs := make([]error, 0, len(fe))
	for _, e := range fe {
		errs = append(errs, e)
	}
	return errs
}

// ByField maps field name to message, for inline display next to inputs.
func (fe FieldErrors) ByField() map[string]string {
	out := make(map[string]string, len(fe))
	for _, e := range fe {
		out[e.Field] = e.Message
	}
	return out
}

// AsFieldErrors extracts FieldErrors from err, if any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Validate trims every field, checks that name and url are present and
// normalizes the url. It returns the cleaned data or FieldErrors.
func (f FormData) Validate() (FormData, error) {
	clean := FormData{
		Name:        strings.TrimSpace(f.Name),
		URL:         strings.TrimSpace(f.URL),
		Description: strings.TrimSpace(f.Description),
	}

	var errs FieldErrors
	if clean.Name == "" {
		errs = append(errs, apperror.ValidationFailed(FieldName, "Name is required"))
	}
	if clean.URL == "" {
		errs = append(errs, apperror.ValidationFailed(FieldURL, "URL is required"))
	}
	if len(errs) > 0 {
		return FormData{}, errs
	}

	clean.URL = NormalizeURL(clean.URL)
	return clean, nil
}

// FormFrom pre-fills a form with an existing bookmark (edit mode).
func FormFrom(b Bookmark) FormData {
	return FormData{Name: b.Name, URL: b.URL, Description: b.Description}
}
