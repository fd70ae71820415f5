package handler

import (
	"strings"
	"unicode/utf8"

	"lifepath/internal/numerology"
	dErrors "lifepath/pkg/domain-errors"
)

const maxGenderLength = 32

// BirthRequest is the body of POST /api/numerology and POST /api/generate-report.
type BirthRequest struct {
	Birthday string  `json:"birthday"`
	Gender   *string `json:"gender,omitempty"`
}

// Validate checks presence and size only; the calculator owns date syntax
// so its user-facing messages reach the client unchanged.
func (r *BirthRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Gender != nil && utf8.RuneCountInString(*r.Gender) > maxGenderLength {
		return dErrors.New(dErrors.CodeValidation, "gender must be at most 32 characters")
	}
	if strings.TrimSpace(r.Birthday) == "" {
		return dErrors.New(dErrors.CodeValidation, "birthday is required")
	}
	return nil
}

// ParsedGender returns the gender to pass through, or nil when absent or blank.
func (r *BirthRequest) ParsedGender() *numerology.Gender {
	if r.Gender == nil {
		return nil
	}
	g := strings.TrimSpace(*r.Gender)
	if g == "" {
		return nil
	}
	gender := numerology.Gender(g)
	return &gender
}
