package rowset

import "strings"

// MultiPicklistSeparator is the canonical delimiter used when serializing a
// multipicklist selection. Decoding additionally accepts "," because both
// delimiters appear in stored CRM data.
const MultiPicklistSeparator = ";"

// DecodeMultiPicklist parses a stored multipicklist value into its selection
// set. Entries are trimmed, empties dropped and duplicates removed while the
// first-seen order is preserved.
func DecodeMultiPicklist(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == ','
	})

	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// EncodeMultiPicklist serializes a selection set with the canonical separator.
func EncodeMultiPicklist(selection []string) string {
	cleaned := make([]string, 0, len(selection))
	for _, entry := range selection {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		cleaned = append(cleaned, entry)
	}
	return strings.Join(cleaned, MultiPicklistSeparator)
}

// ToggleMultiPicklist adds option to the stored value when absent and removes
// it when present, returning the re-serialized value.
func ToggleMultiPicklist(value, option string) string {
	option = strings.TrimSpace(option)
	if option == "" {
		return value
	}

	selection := DecodeMultiPicklist(value)
	for i, entry := range selection {
		if entry == option {
			return EncodeMultiPicklist(append(selection[:i], selection[i+1:]...))
		}
	}
	return EncodeMultiPicklist(append(selection, option))
}

// MultiPicklistContains reports whether option is part of the stored value.
func MultiPicklistContains(value, option string) bool {
	option = strings.TrimSpace(option)
	for _, entry := range DecodeMultiPicklist(value) {
		if entry == option {
			return true
		}
	}
	return false
}
