package school

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zourte2486/school-platform-test/internal/model"
	"github.com/zourte2486/school-platform-test/pkg/errors"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// Validator holds the pure field predicates for a school submission. No I/O.
type Validator struct {
	contactRegex *regexp.Regexp
	emailRegex   *regexp.Regexp
}

func NewValidator() *Validator {
	return &Validator{
		contactRegex: regexp.MustCompile(`^[0-9]{10}$`),
		emailRegex:   regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`),
	}
}

// ValidateFields checks the six form fields, stopping at the first failure.
func (v *Validator) ValidateFields(sub model.SchoolSubmission) error {
	if err := v.validateLength("name", sub.Name, 2); err != nil {
		return err
	}
	if err := v.validateLength("address", sub.Address, 5); err != nil {
		return err
	}
	if err := v.validateLength("city", sub.City, 2); err != nil {
		return err
	}
	if err := v.validateLength("state", sub.State, 2); err != nil {
		return err
	}

	if !v.contactRegex.MatchString(sub.Contact) {
		return errors.ValidationError{
			Field:   "contact",
			Value:   sub.Contact,
			Message: "must be exactly 10 digits",
		}
	}

	if !v.emailRegex.MatchString(sub.EmailID) {
		return errors.ValidationError{
			Field:   "email_id",
			Value:   sub.EmailID,
			Message: "must be a valid email address",
		}
	}

	return nil
}

func (v *Validator) validateLength(field, value string, min int) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		return errors.ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("must be at least %d characters", min),
		}
	}
	return nil
}

// ValidateImage checks the declared MIME type and the size ceiling. The two
// messages are distinct so callers can tell a bad type from an oversized file.
func (v *Validator) ValidateImage(img model.ImagePayload) error {
	if !allowedImageTypes[strings.ToLower(img.ContentType)] {
		return errors.NewInvalidImage("Invalid image type. Only JPEG, PNG, and WebP are allowed.")
	}
	if img.Size > maxImageSize || int64(len(img.Data)) > maxImageSize {
		return errors.NewInvalidImage("Image size too large. Maximum size is 5MB.")
	}
	return nil
}
