package render

import (
	"strings"

	"github.com/goliatone/go-memberportal/pkg/metadata"
)

// ErrorMapping splits a server error payload into field-level and form-level
// messages keyed by apiName.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// MapErrorPayload assigns server messages to the section's fields. Keys that
// match no descriptor become form-level messages so nothing is lost.
func MapErrorPayload(section metadata.Section, payload map[string]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{}, len(section.Fields))
	collectFieldNames(section, known)

	for key, message := range payload {
		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}
		name := strings.TrimSpace(key)
		if _, ok := known[name]; ok {
			if mapping.Fields == nil {
				mapping.Fields = make(map[string]string)
			}
			mapping.Fields[name] = message
			continue
		}
		mapping.Form = append(mapping.Form, message)
	}

	mapping.Form = MergeFormErrors(nil, mapping.Form...)
	return mapping
}

// MergeFormErrors concatenates form-level error slices, trimming whitespace
// and dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)

	out := make([]string, 0, len(combined))
	seen := make(map[string]struct{}, len(combined))
	for _, message := range combined {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func collectFieldNames(section metadata.Section, dest map[string]struct{}) {
	for _, field := range section.Fields {
		if field.APIName != "" {
			dest[field.APIName] = struct{}{}
		}
	}
	for _, group := range section.Groups {
		collectFieldNames(group, dest)
	}
}
