// File: internal/usecase/normalizer.go
package usecase

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// The agent webhook has no fixed reply shape: a bare string for plain
// answers, an object with an output field (sometimes a JSON string carrying
// a creative-ad table), or one of several looser envelopes. NormalizeReply
// reduces any of them to a single display string.
//
// The rules form a strict priority cascade: the first applicable rule wins
// and nothing after it runs. A payload can carry both output and message,
// and output must win.
//
// Pure function; identical input always yields identical output.
func NormalizeReply(payload any) string {
	if s, ok := payload.(string); ok {
		return s
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return fallbackText(payload)
	}

	// An output of null or "" is treated as absent so the looser keys
	// below still get a chance.
	if out, ok := obj["output"]; ok && out != nil && out != "" {
		return normalizeOutput(out)
	}

	for _, key := range []string{"message", "response", "text"} {
		if s := stringField(obj, key); s != "" {
			return s
		}
	}
	if data, ok := obj["data"].(map[string]any); ok {
		if s := stringField(data, "output"); s != "" {
			return s
		}
	}

	return fallbackText(payload)
}

// normalizeOutput resolves the output field to a string and renders the
// embedded creative-ad table when one is detected.
func normalizeOutput(out any) string {
	str := resolveOutputString(out)
	trimmed := strings.TrimSpace(str)
	if strings.HasPrefix(trimmed, "{") && strings.Contains(str, `"rows"`) {
		if ad, ok := renderCreativeAd(str); ok {
			return ad
		}
	}
	return str
}

func resolveOutputString(out any) string {
	if s, ok := out.(string); ok {
		return s
	}
	if m, ok := out.(map[string]any); ok {
		if s, ok := m["text"].(string); ok && s != "" {
			return s
		}
		if s, ok := m["content"].(string); ok && s != "" {
			return s
		}
	}
	return jsonString(out)
}

var fenceOpen = regexp.MustCompile("(?i)```json\\s*")

// creativeAdFields in render order, paired with their display labels.
var creativeAdFields = [...][2]string{
	{"NAME", "Name"},
	{"FORMAT", "Format"},
	{"OFFER / ANGLE", "Offer/Angle"},
	{"TARGET ICP", "Target ICP"},
	{"COPY / SCRIPT", "Copy/Script"},
	{"BRIEF DESCRIPTION", "Brief"},
}

// renderCreativeAd parses a creative-ad JSON string and renders its first
// row. Reports false when parsing fails or rows is empty; the caller falls
// back to the raw string, so a malformed ad payload degrades to text rather
// than an error.
func renderCreativeAd(raw string) (string, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(fenceOpen.ReplaceAllString(raw, ""), "```", ""))

	var parsed struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil || len(parsed.Rows) == 0 {
		return "", false
	}

	row := parsed.Rows[0]
	var b strings.Builder
	b.WriteString("✅ Creative Ad Created!\n\n")
	for _, f := range creativeAdFields {
		b.WriteString("**")
		b.WriteString(f[1])
		b.WriteString(":** ")
		b.WriteString(rowValue(row, f[0]))
		b.WriteString("\n")
	}
	b.WriteString("\n*This has been saved to your Creative Pipeline sheet.*")
	return b.String(), true
}

func rowValue(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return "N/A"
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return "N/A"
		}
		return s
	}
	return jsonString(v)
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return jsonString(v)
}

// fallbackText serializes an unrecognized payload, truncated to keep a
// degenerate reply from flooding the conversation.
func fallbackText(payload any) string {
	const maxLen = 500
	s := jsonString(payload)
	if s == "" || s == "null" {
		return "No response received"
	}
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut]
	}
	return s
}

func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
