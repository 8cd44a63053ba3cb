package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/rowset"
)

var employmentDescriptors = []metadata.FieldDescriptor{
	{APIName: "Job_Position__c", Label: "Job Position", Type: metadata.FieldTypeString, Required: true},
	{APIName: "Employer__c", Label: "Employer", Type: metadata.FieldTypeString},
	{APIName: "Start_Date__c", Label: "Start Date", Type: metadata.FieldTypeDate},
	{APIName: "Work_Email__c", Label: "Work Email", Type: metadata.FieldTypeEmail},
}

func TestValidate_RequiredField(t *testing.T) {
	session := NewSession(employmentDescriptors, rowset.Flat{})

	errs := session.Validate()
	if msg := errs["Job_Position__c"]; msg == "" {
		t.Fatalf("expected a required-field message for Job_Position__c, got %v", errs)
	}

	if _, err := session.Submit(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected submit rejection, got %v", err)
	}
}

func TestValidate_TypeChecks(t *testing.T) {
	cases := []struct {
		name    string
		apiName string
		value   string
		wantErr bool
	}{
		{"valid email", "Work_Email__c", "ada@example.org", false},
		{"invalid email", "Work_Email__c", "not-an-email", true},
		{"valid date", "Start_Date__c", "2024-01-15", false},
		{"invalid date", "Start_Date__c", "15/01/2024", true},
		{"empty optional passes", "Employer__c", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session := NewSession(employmentDescriptors, rowset.Flat{"Job_Position__c": "Analyst"})
			session.SetValue(tc.apiName, tc.value)

			_, hasErr := session.Validate()[tc.apiName]
			if hasErr != tc.wantErr {
				t.Fatalf("Validate()[%s] error=%v, want %v", tc.apiName, hasErr, tc.wantErr)
			}
		})
	}
}

func TestValidate_RecomputedFresh(t *testing.T) {
	session := NewSession(employmentDescriptors, rowset.Flat{})

	if errs := session.Validate(); len(errs) == 0 {
		t.Fatalf("expected initial validation errors")
	}

	session.SetValue("Job_Position__c", "Analyst")
	if errs := session.Validate(); len(errs) != 0 {
		t.Fatalf("stale errors survived a fix: %v", errs)
	}
}

func TestSetValue_CopyOnWrite(t *testing.T) {
	baseline := rowset.Flat{"Job_Position__c": "Analyst"}
	session := NewSession(employmentDescriptors, baseline)

	session.SetValue("Job_Position__c", "Manager")

	if baseline["Job_Position__c"] != "Analyst" {
		t.Fatalf("baseline mutated by SetValue")
	}
	if !session.Touched("Job_Position__c") {
		t.Fatalf("edited field not marked touched")
	}
	if !session.Dirty() {
		t.Fatalf("session should be dirty after an edit")
	}
}

func TestSubmit_OmitEmptyPolicy(t *testing.T) {
	session := NewSession(employmentDescriptors, rowset.Flat{
		"Job_Position__c": "Analyst",
		"Employer__c":     "Initech",
	})
	session.SetValue("Employer__c", "")

	payload, err := session.Submit()
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if _, present := payload["Employer__c"]; present {
		t.Fatalf("omit-empty payload still carries the cleared field: %v", payload)
	}
}

func TestSubmit_VerbatimPolicy(t *testing.T) {
	session := NewSession(employmentDescriptors, rowset.Flat{
		"Job_Position__c": "Analyst",
		"Employer__c":     "Initech",
	}, WithPolicy(PolicyVerbatim))
	session.SetValue("Employer__c", "")

	payload, err := session.Submit()
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	want := map[string]string{
		"Job_Position__c": "Analyst",
		"Employer__c":     "",
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("verbatim payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPasswordRule(t *testing.T) {
	descriptors := []metadata.FieldDescriptor{
		{APIName: "New_Password__c", Label: "New Password", Type: metadata.FieldTypeString, Required: true},
	}
	session := NewSession(descriptors, rowset.Flat{}, WithRule("New_Password__c", PasswordRule()))

	cases := []struct {
		value   string
		wantErr bool
	}{
		{"Sup3rSecret", false},
		{"short1A", true},
		{"alllowercase1", true},
		{"NoDigitsHere", true},
		{"Th1sOneIsWayTooLongForTheRule", true},
	}
	for _, tc := range cases {
		session.SetValue("New_Password__c", tc.value)
		_, hasErr := session.Validate()["New_Password__c"]
		if hasErr != tc.wantErr {
			t.Fatalf("password %q: error=%v, want %v", tc.value, hasErr, tc.wantErr)
		}
	}
}

func TestApply_AddressAutofill(t *testing.T) {
	descriptors := []metadata.FieldDescriptor{
		{APIName: "Mailing_Street__c", Type: metadata.FieldTypeString},
		{APIName: "Mailing_City__c", Type: metadata.FieldTypeString},
	}
	session := NewSession(descriptors, rowset.Flat{})

	session.Apply(map[string]string{
		"Mailing_Street__c": "1 High St",
		"Mailing_City__c":   "Melbourne",
	})

	if session.Value("Mailing_City__c") != "Melbourne" {
		t.Fatalf("Apply did not set values")
	}
	if !session.Touched("Mailing_Street__c") {
		t.Fatalf("Apply should mark fields touched")
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"B__c": "bad",
		"A__c": "bad",
	}}
	if got := err.Error(); got != "form: validation failed: A__c, B__c" {
		t.Fatalf("unexpected error string %q", got)
	}
}
