package report

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Fingerprinter derives stable, keyed identifiers for generation inputs so
// cache keys and events never carry a raw birth date.
type Fingerprinter struct {
	key []byte
}

// NewFingerprinter returns a keyed fingerprinter. An empty key is allowed and
// yields an unkeyed hash; keys longer than 64 bytes are rejected.
func NewFingerprinter(key []byte) (*Fingerprinter, error) {
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("fingerprint key must be at most %d bytes, got %d", blake2b.Size, len(key))
	}
	return &Fingerprinter{key: append([]byte(nil), key...)}, nil
}

// FingerprintInput is everything that can change a generated report.
type FingerprintInput struct {
	BirthDate     string
	Gender        string
	Language      string
	ReferenceYear int
	Model         string
}

// Fingerprint returns the hex BLAKE2b-256 of the input fields.
func (f *Fingerprinter) Fingerprint(in FingerprintInput) string {
	h, err := blake2b.New256(f.key)
	if err != nil {
		// key length is checked in NewFingerprinter
		panic(err)
	}
	for _, field := range []string{in.BirthDate, in.Gender, in.Language, strconv.Itoa(in.ReferenceYear), in.Model} {
		h.Write([]byte(strconv.Itoa(len(field))))
		h.Write([]byte{':'})
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}
