package metadata

// FieldType is the simplified enum for the field kinds the portal renders.
type FieldType string

const (
	FieldTypeString        FieldType = "STRING"
	FieldTypeEmail         FieldType = "EMAIL"
	FieldTypePhone         FieldType = "PHONE"
	FieldTypeDate          FieldType = "DATE"
	FieldTypeDouble        FieldType = "DOUBLE"
	FieldTypeTextarea      FieldType = "TEXTAREA"
	FieldTypePicklist      FieldType = "PICKLIST"
	FieldTypeMultiPicklist FieldType = "MULTIPICKLIST"
)

// Known reports whether the field type is one of the canonical enum values.
// Unknown types are still renderable; they degrade to STRING behaviour.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeString, FieldTypeEmail, FieldTypePhone, FieldTypeDate,
		FieldTypeDouble, FieldTypeTextarea, FieldTypePicklist, FieldTypeMultiPicklist:
		return true
	}
	return false
}

// FieldDescriptor models one form field or table column as described by the
// CRM layout metadata. Descriptors are immutable once mapped; a refetch
// produces a fresh set.
type FieldDescriptor struct {
	APIName  string    `json:"apiName"`
	Label    string    `json:"label,omitempty"`
	Type     FieldType `json:"fieldType"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// Section is a named group of field descriptors. Subsections (for example
// "Residential Address" and "Mailing Address") are modelled as child groups
// under a parent section, each rendered independently.
type Section struct {
	Name   string            `json:"name"`
	Fields []FieldDescriptor `json:"fields"`
	Groups []Section         `json:"groups,omitempty"`
}

// Field looks up a descriptor by apiName within the section's own fields.
func (s Section) Field(apiName string) (FieldDescriptor, bool) {
	for _, field := range s.Fields {
		if field.APIName == apiName {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// Group looks up a child group by name.
func (s Section) Group(name string) (Section, bool) {
	for _, group := range s.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return Section{}, false
}
