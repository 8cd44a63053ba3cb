package vanilla

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/render"
)

// Built-in control identifiers exposed by the registry.
const (
	ControlInput       = "input"
	ControlDate        = "date"
	ControlTextarea    = "textarea"
	ControlSelect      = "select"
	ControlRadioGroup  = "radio-group"
	ControlCheckboxSet = "checkbox-set"
)

// Matcher decides whether a control should handle the supplied field for the
// current render options.
type Matcher func(field metadata.FieldDescriptor, opts render.RenderOptions) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// ControlRegistry selects controls for descriptors. Higher priority wins;
// ties fall back to registration order. Fields no matcher claims render as
// plain text inputs: the metadata source is externally controlled, so
// resolution fails open rather than refusing to render.
type ControlRegistry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewControlRegistry constructs a registry with the built-in matchers
// registered.
func NewControlRegistry() *ControlRegistry {
	reg := &ControlRegistry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a control matcher. Higher priority values take precedence.
func (r *ControlRegistry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the control name for a field, defaulting to ControlInput.
func (r *ControlRegistry) Resolve(field metadata.FieldDescriptor, opts render.RenderOptions) string {
	if r == nil {
		return ControlInput
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field, opts) {
			return entry.name
		}
	}
	return ControlInput
}

func (r *ControlRegistry) registerBuiltins() {
	// The radio/select split is driven purely by the configured allow-list,
	// never by anything on the descriptor itself.
	r.Register(ControlRadioGroup, 90, func(field metadata.FieldDescriptor, opts render.RenderOptions) bool {
		return field.Type == metadata.FieldTypePicklist && opts.RadioGroup(field.APIName)
	})

	r.Register(ControlCheckboxSet, 80, func(field metadata.FieldDescriptor, _ render.RenderOptions) bool {
		return field.Type == metadata.FieldTypeMultiPicklist
	})

	r.Register(ControlSelect, 70, func(field metadata.FieldDescriptor, _ render.RenderOptions) bool {
		// A picklist without any option universe degrades to free text.
		return field.Type == metadata.FieldTypePicklist && len(field.Options) > 0
	})

	r.Register(ControlDate, 60, func(field metadata.FieldDescriptor, _ render.RenderOptions) bool {
		return field.Type == metadata.FieldTypeDate
	})

	r.Register(ControlTextarea, 50, func(field metadata.FieldDescriptor, _ render.RenderOptions) bool {
		return field.Type == metadata.FieldTypeTextarea
	})
}

// inputType maps a field type to the HTML input type used by ControlInput.
func inputType(field metadata.FieldDescriptor) string {
	switch field.Type {
	case metadata.FieldTypeEmail:
		return "email"
	case metadata.FieldTypePhone:
		return "tel"
	case metadata.FieldTypeDouble:
		return "number"
	default:
		// Unknown field types land here too; STRING behaviour is the
		// fail-open default.
		return "text"
	}
}
