// Package device turns user-agent strings into session device labels.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// Label returns a display name such as "Chrome on macOS".
func Label(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return unknownDevice
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name
	if ua.Mobile() && ua.Platform() != "" {
		os = ua.Platform()
	}
	browser = strings.TrimSpace(browser)
	os = strings.TrimSpace(os)
	switch {
	case browser == "" && os == "":
		return unknownDevice
	case os == "":
		return browser
	case browser == "":
		return "Unknown browser on " + os
	}
	return browser + " on " + os
}
