package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Session correlates a triggered workflow run with later status lookups.
// The upstream workflow may report completion under either id, so both are
// kept for the lifetime of the run.
type Session struct {
	// ID is the primary correlation key, generated at trigger time and
	// suffixed with the trigger timestamp in unix millis.
	ID string
	// FallbackID is derived from the normalized company name alone. The
	// ingestion workflow keys its completion signal by company name, which
	// may not round-trip the generated id.
	FallbackID string
	// Company is the normalized company name both ids derive from.
	Company string
}

// NewSession derives a session from the company URL (or free-text company
// name) entered on the trigger form.
func NewSession(companyInput string, now time.Time) Session {
	company := CompanyName(companyInput)
	token := strings.Join(strings.Fields(company), "_")
	return Session{
		ID:         fmt.Sprintf("%s_%d", token, now.UnixMilli()),
		FallbackID: token,
		Company:    company,
	}
}

// CompanyName extracts a bare company name from a URL or free text:
// "https://www.acme.io/about" and "acme.io" both yield "acme".
func CompanyName(input string) string {
	input = strings.TrimSpace(input)
	if u, err := url.Parse(input); err == nil && u.Scheme != "" && u.Host != "" {
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if i := strings.IndexByte(host, '.'); i >= 0 {
			host = host[:i]
		}
		return host
	}
	s := strings.TrimPrefix(input, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return s
}

// NewChatSessionID is the id assigned when a chat turn arrives without one.
func NewChatSessionID(now time.Time) string {
	return fmt.Sprintf("session_%d", now.UnixMilli())
}
