package report

import (
	"time"

	"lifepath/internal/numerology"
)

// Record is one persisted generation. It holds the birth year but never the
// full birth date; Fingerprint links repeat requests for the same input.
type Record struct {
	ID           string            `json:"id"`
	Fingerprint  string            `json:"fingerprint"`
	BirthYear    int               `json:"birth_year"`
	Gender       string            `json:"gender,omitempty"`
	Language     string            `json:"language"`
	Model        string            `json:"model"`
	Report       *Report           `json:"report"`
	Calculations numerology.Result `json:"calculations"`
	Usage        Usage             `json:"usage"`
	Cost         Cost              `json:"cost"`
	CreatedAt    time.Time         `json:"created_at"`
}
