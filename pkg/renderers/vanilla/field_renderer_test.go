package vanilla

import (
	"strings"
	"testing"

	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/render"
	"github.com/goliatone/go-memberportal/pkg/rowset"
)

func newFieldRenderer() fieldRenderer {
	return fieldRenderer{controls: NewControlRegistry()}
}

func TestRenderField_UnknownTypeFallsBackToTextInput(t *testing.T) {
	fr := newFieldRenderer()
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName: "Mystery__c",
		Label:   "Mystery",
		Type:    metadata.FieldType("WEIRD_TYPE"),
	}, render.RenderOptions{Values: rowset.Flat{"Mystery__c": "hello"}})

	if !strings.Contains(markup, `type="text"`) {
		t.Fatalf("expected text input fallback, got:\n%s", markup)
	}
	if !strings.Contains(markup, `value="hello"`) {
		t.Fatalf("expected the current value to survive, got:\n%s", markup)
	}
}

func TestRenderField_DateInvalidValueRendersEmpty(t *testing.T) {
	fr := newFieldRenderer()
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName: "Start_Date__c",
		Type:    metadata.FieldTypeDate,
	}, render.RenderOptions{Values: rowset.Flat{"Start_Date__c": "not-a-date"}})

	if !strings.Contains(markup, `type="date"`) {
		t.Fatalf("expected a date input, got:\n%s", markup)
	}
	if !strings.Contains(markup, `value=""`) {
		t.Fatalf("invalid date should render empty, got:\n%s", markup)
	}
}

func TestRenderField_DoubleUsesFreePrecision(t *testing.T) {
	fr := newFieldRenderer()
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName: "CPD_Hours__c",
		Type:    metadata.FieldTypeDouble,
	}, render.RenderOptions{Values: rowset.Flat{"CPD_Hours__c": "12.345"}})

	if !strings.Contains(markup, `step="any"`) {
		t.Fatalf("expected free decimal precision, got:\n%s", markup)
	}
}

func TestRenderField_PicklistSelect(t *testing.T) {
	fr := newFieldRenderer()
	descriptor := metadata.FieldDescriptor{
		APIName: "Membership_Type__c",
		Type:    metadata.FieldTypePicklist,
		Options: []string{"Student", "Full"},
	}

	markup := fr.renderField(descriptor, render.RenderOptions{
		Values: rowset.Flat{"Membership_Type__c": "Full"},
	})
	if !strings.Contains(markup, "<select") {
		t.Fatalf("expected a select, got:\n%s", markup)
	}
	if !strings.Contains(markup, `<option value="Full" selected>`) {
		t.Fatalf("expected Full selected, got:\n%s", markup)
	}
}

func TestRenderField_PicklistKeepsStaleSelectionDisplayable(t *testing.T) {
	fr := newFieldRenderer()
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName: "Membership_Type__c",
		Type:    metadata.FieldTypePicklist,
		Options: []string{"Student", "Full"},
	}, render.RenderOptions{Values: rowset.Flat{"Membership_Type__c": "Legacy"}})

	if !strings.Contains(markup, `<option value="Legacy" selected>`) {
		t.Fatalf("stale selection should still render, got:\n%s", markup)
	}
}

func TestRenderField_PicklistWithoutOptionsDegradesToText(t *testing.T) {
	fr := newFieldRenderer()
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName: "Unlisted__c",
		Type:    metadata.FieldTypePicklist,
	}, render.RenderOptions{Values: rowset.Flat{"Unlisted__c": "whatever"}})

	if !strings.Contains(markup, `type="text"`) {
		t.Fatalf("optionless picklist should degrade to free text, got:\n%s", markup)
	}
}

func TestRenderField_RadioGroupAllowList(t *testing.T) {
	fr := newFieldRenderer()
	descriptor := metadata.FieldDescriptor{
		APIName: "Gender__c",
		Type:    metadata.FieldTypePicklist,
		Options: []string{"Female", "Male"},
	}

	// Not on the allow-list: dropdown.
	markup := fr.renderField(descriptor, render.RenderOptions{})
	if !strings.Contains(markup, "<select") {
		t.Fatalf("expected a select without allow-list, got:\n%s", markup)
	}

	// On the allow-list: radios. The switch is pure set membership.
	markup = fr.renderField(descriptor, render.RenderOptions{
		RadioGroups: []string{"Gender__c"},
		Values:      rowset.Flat{"Gender__c": "Female"},
	})
	if !strings.Contains(markup, `type="radio"`) {
		t.Fatalf("expected radio group, got:\n%s", markup)
	}
	if !strings.Contains(markup, `value="Female" checked`) {
		t.Fatalf("expected Female checked, got:\n%s", markup)
	}
}

func TestRenderField_MultiPicklistCheckboxes(t *testing.T) {
	fr := newFieldRenderer()
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName: "Communication_Preferences__c",
		Type:    metadata.FieldTypeMultiPicklist,
		Options: []string{"Newsletter", "Surveys", "Journal"},
	}, render.RenderOptions{
		Values: rowset.Flat{"Communication_Preferences__c": "Newsletter;Journal"},
	})

	if got := strings.Count(markup, `type="checkbox"`); got != 3 {
		t.Fatalf("expected 3 checkboxes, got %d:\n%s", got, markup)
	}
	if got := strings.Count(markup, " checked"); got != 2 {
		t.Fatalf("expected 2 checked boxes, got %d:\n%s", got, markup)
	}
}

func TestRenderField_MultiPicklistDerivesOptionsFromValue(t *testing.T) {
	fr := newFieldRenderer()
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName: "Interests__c",
		Type:    metadata.FieldTypeMultiPicklist,
	}, render.RenderOptions{Values: rowset.Flat{"Interests__c": "Audit;Tax"}})

	if got := strings.Count(markup, `type="checkbox"`); got != 2 {
		t.Fatalf("expected options derived from the value, got %d boxes:\n%s", got, markup)
	}
	if got := strings.Count(markup, " checked"); got != 2 {
		t.Fatalf("derived options should all be checked, got %d:\n%s", got, markup)
	}
}

func TestRenderField_TextareaTruncates(t *testing.T) {
	fr := fieldRenderer{controls: NewControlRegistry(), textareaMaxLen: 5}
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName: "Bio__c",
		Type:    metadata.FieldTypeTextarea,
	}, render.RenderOptions{Values: rowset.Flat{"Bio__c": "0123456789"}})

	if !strings.Contains(markup, ">01234</textarea>") {
		t.Fatalf("expected value truncated at the boundary, got:\n%s", markup)
	}
	if !strings.Contains(markup, `maxlength="5"`) {
		t.Fatalf("expected maxlength attribute, got:\n%s", markup)
	}
}

func TestRenderField_ErrorMarkup(t *testing.T) {
	fr := newFieldRenderer()
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName:  "Job_Position__c",
		Label:    "Job Position",
		Type:     metadata.FieldTypeString,
		Required: true,
	}, render.RenderOptions{
		Errors: map[string]string{"Job_Position__c": "Job Position is required"},
	})

	if !strings.Contains(markup, `data-invalid="true"`) {
		t.Fatalf("expected invalid marker, got:\n%s", markup)
	}
	if !strings.Contains(markup, "Job Position is required") {
		t.Fatalf("expected inline error message, got:\n%s", markup)
	}
}

func TestRenderField_LabelSanitized(t *testing.T) {
	fr := newFieldRenderer()
	markup := fr.renderField(metadata.FieldDescriptor{
		APIName: "X__c",
		Label:   `<script>alert(1)</script>Name`,
		Type:    metadata.FieldTypeString,
	}, render.RenderOptions{})

	if strings.Contains(markup, "<script>") {
		t.Fatalf("label markup leaked through sanitization:\n%s", markup)
	}
	if !strings.Contains(markup, "Name") {
		t.Fatalf("expected the text content to remain, got:\n%s", markup)
	}
}
