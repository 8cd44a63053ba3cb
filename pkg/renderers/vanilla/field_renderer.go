package vanilla

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/render"
	"github.com/goliatone/go-memberportal/pkg/rowset"
)

type fieldRenderer struct {
	controls       *ControlRegistry
	textareaMaxLen int
}

// renderField produces the markup for one descriptor plus its current value.
// Rendering is pure given (descriptor, value, options); nothing is mutated.
func (r fieldRenderer) renderField(field metadata.FieldDescriptor, opts render.RenderOptions) string {
	value := opts.Values[field.APIName]
	control := r.renderControl(field, value, opts)
	return buildFieldMarkup(field, control, opts.Errors[field.APIName])
}

func (r fieldRenderer) renderControl(field metadata.FieldDescriptor, value string, opts render.RenderOptions) string {
	switch r.controls.Resolve(field, opts) {
	case ControlDate:
		return renderDateInput(field, value, opts.Disabled)
	case ControlTextarea:
		return renderTextarea(field, value, r.textareaMaxLen, opts.Disabled)
	case ControlSelect:
		return renderSelect(field, value, opts.Disabled)
	case ControlRadioGroup:
		return renderRadioGroup(field, value, opts.Disabled)
	case ControlCheckboxSet:
		return renderCheckboxSet(field, value, opts.Disabled)
	default:
		return renderInput(field, value, opts.Disabled)
	}
}

func renderInput(field metadata.FieldDescriptor, value string, disabled bool) string {
	var b strings.Builder
	b.WriteString(`<input type="`)
	b.WriteString(inputType(field))
	b.WriteString(`"`)
	writeControlAttrs(&b, field, disabled)
	if inputType(field) == "number" {
		// Free decimal precision; validation, not the control, flags bad
		// input.
		b.WriteString(` step="any"`)
	}
	b.WriteString(` value="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`" class="` + inputClasses + `">`)
	return b.String()
}

func renderDateInput(field metadata.FieldDescriptor, value string, disabled bool) string {
	// Anything that is not a clean ISO date renders as empty rather than
	// erroring; the metadata and value sources are external.
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(value)); err != nil {
		value = ""
	}

	var b strings.Builder
	b.WriteString(`<input type="date"`)
	writeControlAttrs(&b, field, disabled)
	b.WriteString(` value="`)
	b.WriteString(html.EscapeString(strings.TrimSpace(value)))
	b.WriteString(`" class="` + inputClasses + `">`)
	return b.String()
}

func renderTextarea(field metadata.FieldDescriptor, value string, maxLen int, disabled bool) string {
	if maxLen > 0 {
		// Truncation at the input boundary, never a rejected edit.
		runes := []rune(value)
		if len(runes) > maxLen {
			value = string(runes[:maxLen])
		}
	}

	var b strings.Builder
	b.WriteString(`<textarea rows="4"`)
	writeControlAttrs(&b, field, disabled)
	if maxLen > 0 {
		b.WriteString(fmt.Sprintf(` maxlength="%d"`, maxLen))
	}
	b.WriteString(` class="` + inputClasses + `">`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`</textarea>`)
	return b.String()
}

func renderSelect(field metadata.FieldDescriptor, value string, disabled bool) string {
	options := field.Options
	if value != "" && !containsString(options, value) {
		// The stored value may predate the current option universe; keep the
		// selection displayable.
		options = append(append([]string(nil), options...), value)
	}

	var b strings.Builder
	b.WriteString(`<select`)
	writeControlAttrs(&b, field, disabled)
	b.WriteString(` class="` + inputClasses + `">`)
	b.WriteString("\n")
	b.WriteString(`    <option value="">--None--</option>`)
	b.WriteString("\n")
	for _, option := range options {
		b.WriteString(`    <option value="`)
		b.WriteString(html.EscapeString(option))
		b.WriteString(`"`)
		if option == value {
			b.WriteString(` selected`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(option))
		b.WriteString("</option>\n")
	}
	b.WriteString(`</select>`)
	return b.String()
}

func renderRadioGroup(field metadata.FieldDescriptor, value string, disabled bool) string {
	var b strings.Builder
	b.WriteString(`<div class="flex gap-4" role="radiogroup">`)
	b.WriteString("\n")
	for i, option := range field.Options {
		id := fmt.Sprintf("fg-%s-%d", field.APIName, i)
		b.WriteString(`    <label class="flex items-center gap-2" for="`)
		b.WriteString(html.EscapeString(id))
		b.WriteString(`"><input type="radio" id="`)
		b.WriteString(html.EscapeString(id))
		b.WriteString(`" name="`)
		b.WriteString(html.EscapeString(field.APIName))
		b.WriteString(`" value="`)
		b.WriteString(html.EscapeString(option))
		b.WriteString(`"`)
		if option == value {
			b.WriteString(` checked`)
		}
		if disabled {
			b.WriteString(` disabled`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(option))
		b.WriteString("</label>\n")
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderCheckboxSet(field metadata.FieldDescriptor, value string, disabled bool) string {
	options := field.Options
	if len(options) == 0 {
		// No option universe resolved anywhere; derive it from the stored
		// value so the current selection is always displayable.
		options = rowset.DecodeMultiPicklist(value)
	}

	var b strings.Builder
	b.WriteString(`<div class="grid gap-2">`)
	b.WriteString("\n")
	for i, option := range options {
		id := fmt.Sprintf("fg-%s-%d", field.APIName, i)
		b.WriteString(`    <label class="flex items-center gap-2" for="`)
		b.WriteString(html.EscapeString(id))
		b.WriteString(`"><input type="checkbox" id="`)
		b.WriteString(html.EscapeString(id))
		b.WriteString(`" name="`)
		b.WriteString(html.EscapeString(field.APIName))
		b.WriteString(`" value="`)
		b.WriteString(html.EscapeString(option))
		b.WriteString(`"`)
		if rowset.MultiPicklistContains(value, option) {
			b.WriteString(` checked`)
		}
		if disabled {
			b.WriteString(` disabled`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(option))
		b.WriteString("</label>\n")
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writeControlAttrs(b *strings.Builder, field metadata.FieldDescriptor, disabled bool) {
	b.WriteString(` id="fg-`)
	b.WriteString(html.EscapeString(field.APIName))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.APIName))
	b.WriteString(`"`)
	if field.Required {
		b.WriteString(` required`)
	}
	if disabled {
		b.WriteString(` disabled`)
	}
}

func buildFieldMarkup(field metadata.FieldDescriptor, control, errorMessage string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="grid gap-2" data-field="`)
	builder.WriteString(html.EscapeString(field.APIName))
	builder.WriteString(`"`)
	if errorMessage != "" {
		builder.WriteString(` data-invalid="true"`)
	}
	builder.WriteString(">\n")

	if label := sanitizeText(field.Label); label != "" {
		builder.WriteString(`    <label for="fg-`)
		builder.WriteString(html.EscapeString(field.APIName))
		builder.WriteString(`" class="text-sm font-medium text-gray-900">`)
		// sanitizeText output is already entity-escaped.
		builder.WriteString(label)
		if field.Required {
			builder.WriteString(` *`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if errorMessage != "" {
		builder.WriteString(`    <small class="text-sm text-red-600">`)
		builder.WriteString(sanitizeText(errorMessage))
		builder.WriteString("</small>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}

const inputClasses = "rounded border border-gray-300 px-3 py-2 text-sm"
