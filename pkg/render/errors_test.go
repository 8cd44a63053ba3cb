package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-memberportal/pkg/metadata"
)

func TestMapErrorPayload(t *testing.T) {
	section := metadata.Section{
		Name: "Employment",
		Fields: []metadata.FieldDescriptor{
			{APIName: "Job_Position__c"},
		},
		Groups: []metadata.Section{
			{Fields: []metadata.FieldDescriptor{{APIName: "Mailing_City__c"}}},
		},
	}

	mapping := MapErrorPayload(section, map[string]string{
		"Job_Position__c": "Required",
		"Mailing_City__c": "Required",
		"mystery_key":     "Something broke",
		"blank":           "   ",
	})

	wantFields := map[string]string{
		"Job_Position__c": "Required",
		"Mailing_City__c": "Required",
	}
	if diff := cmp.Diff(wantFields, mapping.Fields); diff != "" {
		t.Fatalf("field mapping mismatch (-want +got):\n%s", diff)
	}
	if len(mapping.Form) != 1 || mapping.Form[0] != "Something broke" {
		t.Fatalf("unknown key should become a form-level message, got %v", mapping.Form)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := MergeFormErrors([]string{"one", " two "}, "two", "", "three")
	want := []string{"one", "two", "three"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}
