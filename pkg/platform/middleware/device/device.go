// Package device classifies clients from their User-Agent header.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Class values.
const (
	ClassBot     = "bot"
	ClassMobile  = "mobile"
	ClassDesktop = "desktop"
	ClassUnknown = "unknown"
)

// Classify returns a coarse device class for a User-Agent string.
func Classify(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ClassUnknown
	}
	ua := useragent.New(userAgent)
	switch {
	case ua.Bot():
		return ClassBot
	case ua.Mobile():
		return ClassMobile
	case ua.OS() == "" && ua.Platform() == "":
		return ClassUnknown
	default:
		return ClassDesktop
	}
}

// Browser returns "name version" when the User-Agent identifies a browser.
func Browser(userAgent string) string {
	name, version := useragent.New(userAgent).Browser()
	if name == "" {
		return ""
	}
	return strings.TrimSpace(name + " " + version)
}
