package render

import "github.com/goliatone/go-memberportal/pkg/rowset"

// RenderOptions describe per-request data renderers can use without touching
// the descriptor pipeline.
type RenderOptions struct {
	// Action is the submit target for form output.
	Action string
	// Method overrides the submit method; renderers translate non-browser
	// verbs (PATCH/PUT) into POST plus a hidden _method input when needed.
	Method string
	// Values pre-populates rendered controls keyed by apiName.
	Values rowset.Flat
	// Errors surfaces validation feedback keyed by apiName; renderers map
	// these into inline markup next to the offending control.
	Errors map[string]string
	// Disabled renders every control read-only, used while a save is in
	// flight.
	Disabled bool
	// RadioGroups lists the PICKLIST apiNames rendered as mutually-exclusive
	// radio groups instead of dropdowns. Membership in this set is the only
	// thing that drives the distinction.
	RadioGroups []string
}

// RadioGroup reports whether apiName is configured for radio rendering.
func (o RenderOptions) RadioGroup(apiName string) bool {
	for _, name := range o.RadioGroups {
		if name == apiName {
			return true
		}
	}
	return false
}
