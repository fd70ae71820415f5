package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeReport parses model output. The response schema is an array whose
// first element is the report; a bare object is accepted as well.
func DecodeReport(raw []byte) (*Report, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedReport)
	}

	element := trimmed
	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: empty report array", ErrMalformedReport)
		}
		element = items[0]
	}

	var r Report
	if err := json.Unmarshal(element, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	return &r, nil
}
