// Package form binds a set of field descriptors to mutable values, tracking
// touched/error state and producing the save payload on submit. A session
// edits a copy of the fetched baseline; the baseline itself is never mutated.
package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/rowset"
)

// ErrValidation is the sentinel wrapped by every validation rejection.
var ErrValidation = errors.New("form: validation failed")

// ValidationError carries per-field messages for a rejected submit.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("form: validation failed: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// SubmitPolicy selects how empty values travel in the submit payload.
//
// PolicyOmitEmpty drops empty strings so the consuming API never receives a
// spurious "clear this field" instruction; the employment-history forms rely
// on that. PolicyVerbatim sends values exactly as edited, which the generic
// settings forms require. The choice is intentionally per call site; do not
// unify them.
type SubmitPolicy int

const (
	PolicyOmitEmpty SubmitPolicy = iota
	PolicyVerbatim
)

// Rule is an extra validation check attached to a single field. Returning an
// empty string means the value passes.
type Rule func(value string) string

// Session is the mutable editing state for one form. Not safe for concurrent
// use; each page owns at most one active session.
type Session struct {
	descriptors []metadata.FieldDescriptor
	baseline    rowset.Flat
	values      rowset.Flat
	touched     map[string]struct{}
	policy      SubmitPolicy
	extraRules  map[string][]Rule
}

// SessionOption customises session construction.
type SessionOption func(*Session)

// WithPolicy selects the submit payload policy. The default is PolicyOmitEmpty.
func WithPolicy(policy SubmitPolicy) SessionOption {
	return func(s *Session) {
		s.policy = policy
	}
}

// WithRule attaches an additional validation rule to one field. Rules stack
// with the built-in required/type checks.
func WithRule(apiName string, rule Rule) SessionOption {
	return func(s *Session) {
		if apiName == "" || rule == nil {
			return
		}
		s.extraRules[apiName] = append(s.extraRules[apiName], rule)
	}
}

// NewSession binds descriptors to a baseline row. The baseline is cloned; the
// caller's map is never written to.
func NewSession(descriptors []metadata.FieldDescriptor, baseline rowset.Flat, opts ...SessionOption) *Session {
	s := &Session{
		descriptors: append([]metadata.FieldDescriptor(nil), descriptors...),
		baseline:    baseline.Clone(),
		values:      baseline.Clone(),
		touched:     make(map[string]struct{}),
		extraRules:  make(map[string][]Rule),
	}
	if s.values == nil {
		s.values = rowset.Flat{}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// SetValue records an edit and marks the field touched. It always succeeds;
// flagging bad input is validation's job, not the setter's.
func (s *Session) SetValue(apiName, value string) {
	if apiName == "" {
		return
	}
	s.values[apiName] = value
	s.touched[apiName] = struct{}{}
}

// Value returns the current value for apiName.
func (s *Session) Value(apiName string) string {
	return s.values[apiName]
}

// Values returns a copy of the current value map.
func (s *Session) Values() rowset.Flat {
	return s.values.Clone()
}

// Touched reports whether the field has been edited this session.
func (s *Session) Touched(apiName string) bool {
	_, ok := s.touched[apiName]
	return ok
}

// Dirty reports whether any current value differs from the baseline.
func (s *Session) Dirty() bool {
	for name, value := range s.values {
		if s.baseline[name] != value {
			return true
		}
	}
	for name := range s.baseline {
		if _, ok := s.values[name]; !ok {
			return true
		}
	}
	return false
}

// Apply copies a batch of values into the session (for example the address
// auto-fill), marking each field touched.
func (s *Session) Apply(values map[string]string) {
	for name, value := range values {
		s.SetValue(name, value)
	}
}

// Validate recomputes the error map from scratch. Errors are never cached, so
// the result always reflects the current values.
func (s *Session) Validate() map[string]string {
	errs := make(map[string]string)
	for _, descriptor := range s.descriptors {
		value := strings.TrimSpace(s.values[descriptor.APIName])

		if descriptor.Required && value == "" {
			errs[descriptor.APIName] = fmt.Sprintf("%s is required", labelFor(descriptor))
			continue
		}
		if value == "" {
			continue
		}

		if msg := checkType(descriptor, value); msg != "" {
			errs[descriptor.APIName] = msg
			continue
		}
		for _, rule := range s.extraRules[descriptor.APIName] {
			if msg := rule(value); msg != "" {
				errs[descriptor.APIName] = msg
				break
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit validates and materializes the save payload under the session's
// policy. A rejected submit returns a *ValidationError wrapping ErrValidation
// and the caller must not proceed to the network call.
func (s *Session) Submit() (map[string]string, error) {
	if errs := s.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	payload := make(map[string]string, len(s.values))
	for _, descriptor := range s.descriptors {
		value, ok := s.values[descriptor.APIName]
		if !ok {
			continue
		}
		if s.policy == PolicyOmitEmpty && strings.TrimSpace(value) == "" {
			continue
		}
		payload[descriptor.APIName] = value
	}
	return payload, nil
}

func labelFor(descriptor metadata.FieldDescriptor) string {
	if descriptor.Label != "" {
		return descriptor.Label
	}
	return descriptor.APIName
}
