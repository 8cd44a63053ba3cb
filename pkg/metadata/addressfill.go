package metadata

import "strings"

// Tokens stripped from apiNames when pairing fields across address groups.
// The describe payload carries no explicit mapping between the residential
// and mailing groups, so pairing is a best-effort name heuristic.
var copyStripTokens = []string{"Residential", "Mailing", "Person"}

// CopyGroupValues produces the value updates that copy one address group onto
// another (for example "copy residential address to mailing address"). Fields
// are paired by canonical name after stripping the known group tokens; fields
// without a counterpart are silently skipped. The returned map contains only
// the target-group apiNames, ready to be applied to a form session.
func CopyGroupValues(from, to Section, values map[string]string) map[string]string {
	if len(from.Fields) == 0 || len(to.Fields) == 0 || len(values) == 0 {
		return nil
	}

	sources := make(map[string]string, len(from.Fields))
	for _, field := range from.Fields {
		key := canonicalFieldKey(field.APIName)
		if key == "" {
			continue
		}
		if _, exists := sources[key]; exists {
			// Ambiguous pairing on the source side; first field wins.
			continue
		}
		sources[key] = field.APIName
	}

	out := make(map[string]string)
	for _, field := range to.Fields {
		key := canonicalFieldKey(field.APIName)
		if key == "" {
			continue
		}
		sourceName, ok := sources[key]
		if !ok {
			continue
		}
		value, ok := values[sourceName]
		if !ok {
			continue
		}
		out[field.APIName] = value
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func canonicalFieldKey(apiName string) string {
	name := strings.TrimSuffix(apiName, "__c")
	for _, token := range copyStripTokens {
		name = strings.ReplaceAll(name, token, "")
	}
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	return strings.ToLower(strings.TrimSpace(name))
}
