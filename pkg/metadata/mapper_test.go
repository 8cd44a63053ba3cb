package metadata

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMapSection_NormalizesRequired(t *testing.T) {
	mapper := NewMapper()

	raw := RawSection{
		Name: "Employment",
		Fields: []RawField{
			{APIName: "Job_Position__c", Label: "Job Position", FieldType: "STRING", Required: "true"},
			{APIName: "Employer__c", Label: "Employer", FieldType: "STRING", Required: "false"},
			{APIName: "Start_Date__c", Label: "Start Date", FieldType: "DATE"},
		},
	}

	section, issues, err := mapper.MapSection(raw)
	if err != nil {
		t.Fatalf("MapSection returned error: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}

	want := []FieldDescriptor{
		{APIName: "Job_Position__c", Label: "Job Position", Type: FieldTypeString, Required: true},
		{APIName: "Employer__c", Label: "Employer", Type: FieldTypeString},
		{APIName: "Start_Date__c", Label: "Start Date", Type: FieldTypeDate},
	}
	if diff := cmp.Diff(want, section.Fields); diff != "" {
		t.Fatalf("mapped fields mismatch (-want +got):\n%s", diff)
	}
}

func TestMapSection_UnknownFieldTypeFallsBackToString(t *testing.T) {
	mapper := NewMapper()

	section, issues, err := mapper.MapSection(RawSection{
		Name: "Profile",
		Fields: []RawField{
			{APIName: "Mystery__c", FieldType: "WEIRD_TYPE"},
		},
	})
	if err != nil {
		t.Fatalf("MapSection returned error: %v", err)
	}

	field, ok := section.Field("Mystery__c")
	if !ok {
		t.Fatalf("field Mystery__c not mapped")
	}
	if field.Type != FieldTypeString {
		t.Fatalf("expected STRING fallback, got %s", field.Type)
	}

	if len(issues) == 0 {
		t.Fatalf("expected an issue flagging the unknown fieldType")
	}
	if !strings.Contains(issues[0].Message, "WEIRD_TYPE") {
		t.Fatalf("issue should name the bad type, got %q", issues[0].Message)
	}
}

func TestMapSection_DuplicateAPINameFails(t *testing.T) {
	mapper := NewMapper()

	_, _, err := mapper.MapSection(RawSection{
		Name: "Profile",
		Fields: []RawField{
			{APIName: "Email__c", FieldType: "EMAIL"},
			{APIName: "Email__c", FieldType: "STRING"},
		},
	})
	if err == nil {
		t.Fatalf("expected duplicate apiName error")
	}
	if !strings.Contains(err.Error(), "Email__c") {
		t.Fatalf("error should name the duplicate field, got %v", err)
	}
}

func TestMapSection_SkipsFieldWithoutAPIName(t *testing.T) {
	mapper := NewMapper()

	section, issues, err := mapper.MapSection(RawSection{
		Name: "Profile",
		Fields: []RawField{
			{APIName: "", FieldType: "STRING"},
			{APIName: "Phone__c", FieldType: "PHONE"},
		},
	})
	if err != nil {
		t.Fatalf("MapSection returned error: %v", err)
	}
	if len(section.Fields) != 1 || section.Fields[0].APIName != "Phone__c" {
		t.Fatalf("expected only Phone__c to survive, got %+v", section.Fields)
	}
	if len(issues) == 0 {
		t.Fatalf("expected an issue for the keyless field")
	}
}

func TestMapSection_PicklistOptions(t *testing.T) {
	catalog := NewCatalog(map[string][]string{
		"Membership_Type__c": {"Student", "Full"},
	})
	mapper := NewMapper(WithCatalog(catalog))

	cases := []struct {
		name string
		raw  RawField
		want []string
	}{
		{
			name: "describe supplied options win",
			raw: RawField{
				APIName:        "Membership_Type__c",
				FieldType:      "PICKLIST",
				PicklistValues: []string{"Associate", "Fellow"},
			},
			want: []string{"Associate", "Fellow"},
		},
		{
			name: "catalog fallback",
			raw:  RawField{APIName: "Membership_Type__c", FieldType: "PICKLIST"},
			want: []string{"Student", "Full"},
		},
		{
			name: "no options resolve",
			raw:  RawField{APIName: "Unlisted__c", FieldType: "PICKLIST"},
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			section, _, err := mapper.MapSection(RawSection{Name: "S", Fields: []RawField{tc.raw}})
			if err != nil {
				t.Fatalf("MapSection returned error: %v", err)
			}
			field, ok := section.Field(tc.raw.APIName)
			if !ok {
				t.Fatalf("field %s not mapped", tc.raw.APIName)
			}
			if diff := cmp.Diff(tc.want, field.Options); diff != "" {
				t.Fatalf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapSection_Subsections(t *testing.T) {
	mapper := NewMapper()

	section, _, err := mapper.MapSection(RawSection{
		Name: "Contact Details",
		Sections: []RawSection{
			{
				Name: "Residential Address",
				Fields: []RawField{
					{APIName: "Residential_Street__c", FieldType: "STRING"},
				},
			},
			{
				Name: "Mailing Address",
				Fields: []RawField{
					{APIName: "Mailing_Street__c", FieldType: "STRING"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("MapSection returned error: %v", err)
	}

	if len(section.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(section.Groups))
	}
	if _, ok := section.Group("Mailing Address"); !ok {
		t.Fatalf("missing Mailing Address group")
	}
}

func TestMapSection_DefaultLabelFromAPIName(t *testing.T) {
	mapper := NewMapper()

	section, _, err := mapper.MapSection(RawSection{
		Name:   "Profile",
		Fields: []RawField{{APIName: "Job_Position__c", FieldType: "STRING"}},
	})
	if err != nil {
		t.Fatalf("MapSection returned error: %v", err)
	}
	if got := section.Fields[0].Label; got != "Job Position" {
		t.Fatalf("expected derived label %q, got %q", "Job Position", got)
	}
}
