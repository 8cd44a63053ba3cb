package metadata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RawField is the describe-payload shape for a single field definition. The
// CRM encodes required-ness as the strings "true"/"false"; that quirk stops at
// this boundary.
type RawField struct {
	APIName        string   `json:"apiName" validate:"required"`
	Label          string   `json:"label"`
	FieldType      string   `json:"fieldType" validate:"required"`
	Required       string   `json:"required" validate:"omitempty,oneof=true false"`
	PicklistValues []string `json:"picklistValues,omitempty"`
}

// RawSection is the describe-payload shape for a layout section, including
// nested subsections such as the residential/mailing address groups.
type RawSection struct {
	Name     string       `json:"name"`
	Fields   []RawField   `json:"fields,omitempty"`
	Sections []RawSection `json:"sections,omitempty"`
}

// Issue records a metadata problem detected while mapping. Issues never abort
// the mapping; the metadata source is externally controlled and a bad field
// must not take the whole section down.
type Issue struct {
	Section string `json:"section"`
	APIName string `json:"apiName,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.APIName == "" {
		return fmt.Sprintf("%s: %s", i.Section, i.Message)
	}
	return fmt.Sprintf("%s.%s: %s", i.Section, i.APIName, i.Message)
}

// Mapper converts raw describe sections into immutable descriptor sections.
// The zero value is not usable; construct with NewMapper.
type Mapper struct {
	catalog  *Catalog
	validate *validator.Validate
}

// MapperOption customises mapper construction.
type MapperOption func(*Mapper)

// WithCatalog overrides the static picklist catalog used when a field carries
// no options of its own.
func WithCatalog(catalog *Catalog) MapperOption {
	return func(m *Mapper) {
		if catalog != nil {
			m.catalog = catalog
		}
	}
}

// NewMapper constructs a mapper backed by the default embedded catalog unless
// overridden.
func NewMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{
		catalog:  DefaultCatalog(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// MapSection maps a raw describe section (and its subsections) to descriptor
// form. Schema problems are reported as issues while the mapping degrades
// gracefully; the only hard error is a duplicate apiName within one section,
// which would make every downstream value map ambiguous.
func (m *Mapper) MapSection(raw RawSection) (Section, []Issue, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = "Section"
	}

	section := Section{Name: name}
	var issues []Issue

	seen := make(map[string]struct{}, len(raw.Fields))
	for _, rawField := range raw.Fields {
		descriptor, fieldIssues, ok := m.mapField(name, rawField)
		issues = append(issues, fieldIssues...)
		if !ok {
			continue
		}
		if _, dup := seen[descriptor.APIName]; dup {
			return Section{}, issues, fmt.Errorf("metadata: duplicate apiName %q in section %q", descriptor.APIName, name)
		}
		seen[descriptor.APIName] = struct{}{}
		section.Fields = append(section.Fields, descriptor)
	}

	for _, rawGroup := range raw.Sections {
		group, groupIssues, err := m.MapSection(rawGroup)
		issues = append(issues, groupIssues...)
		if err != nil {
			return Section{}, issues, err
		}
		section.Groups = append(section.Groups, group)
	}

	return section, issues, nil
}

func (m *Mapper) mapField(sectionName string, raw RawField) (FieldDescriptor, []Issue, bool) {
	var issues []Issue

	if err := m.validate.Struct(raw); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				issues = append(issues, Issue{
					Section: sectionName,
					APIName: raw.APIName,
					Message: describeValidationError(fieldErr),
				})
			}
		} else {
			issues = append(issues, Issue{Section: sectionName, APIName: raw.APIName, Message: err.Error()})
		}
	}

	apiName := strings.TrimSpace(raw.APIName)
	if apiName == "" {
		// Without a key the field cannot be addressed at all; skip it.
		return FieldDescriptor{}, issues, false
	}

	fieldType := FieldType(strings.ToUpper(strings.TrimSpace(raw.FieldType)))
	if !fieldType.Known() {
		if raw.FieldType != "" {
			issues = append(issues, Issue{
				Section: sectionName,
				APIName: apiName,
				Message: fmt.Sprintf("unknown fieldType %q, falling back to STRING", raw.FieldType),
			})
		}
		fieldType = FieldTypeString
	}

	label := strings.TrimSpace(raw.Label)
	if label == "" {
		label = DefaultLabeler(apiName)
	}

	descriptor := FieldDescriptor{
		APIName:  apiName,
		Label:    label,
		Type:     fieldType,
		Required: strings.EqualFold(strings.TrimSpace(raw.Required), "true"),
	}

	if fieldType == FieldTypePicklist || fieldType == FieldTypeMultiPicklist {
		descriptor.Options = m.resolveOptions(apiName, raw.PicklistValues)
	}

	return descriptor, issues, true
}

func (m *Mapper) resolveOptions(apiName string, supplied []string) []string {
	options := make([]string, 0, len(supplied))
	for _, option := range supplied {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		options = append(options, option)
	}
	if len(options) > 0 {
		return options
	}
	if fallback, ok := m.catalog.Lookup(apiName); ok {
		return fallback
	}
	// No option universe; the renderer degrades this field to free text.
	return nil
}

func describeValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("missing %s", strings.ToLower(err.Field()))
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", strings.ToLower(err.Field()), err.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", strings.ToLower(err.Field()), err.Tag())
	}
}
