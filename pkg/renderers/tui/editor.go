// Package tui walks a form session through terminal prompts. It backs the
// portalctl client; the web portal uses the vanilla HTML renderer instead.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-memberportal/pkg/form"
	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/rowset"
)

// Option customises the editor.
type Option func(*Editor)

// WithDriver swaps the prompt driver, primarily for tests.
func WithDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// Editor prompts field by field and records answers on the session.
type Editor struct {
	driver PromptDriver
}

// NewEditor constructs an editor with the survey-backed driver unless
// overridden.
func NewEditor(options ...Option) *Editor {
	e := &Editor{driver: NewPromptDriver()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// EditSection prompts for every field in the section and its child groups,
// writing answers into the session. Validation stays with the session; the
// editor only collects input.
func (e *Editor) EditSection(ctx context.Context, section metadata.Section, session *form.Session) error {
	if session == nil {
		return fmt.Errorf("tui: session is required")
	}
	if err := e.editFields(ctx, section.Fields, session); err != nil {
		return err
	}
	for _, group := range section.Groups {
		if err := e.editFields(ctx, group.Fields, session); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) editFields(ctx context.Context, fields []metadata.FieldDescriptor, session *form.Session) error {
	for _, field := range fields {
		if err := e.editField(ctx, field, session); err != nil {
			return fmt.Errorf("tui: prompt %s: %w", field.APIName, err)
		}
	}
	return nil
}

func (e *Editor) editField(ctx context.Context, field metadata.FieldDescriptor, session *form.Session) error {
	current := session.Value(field.APIName)
	message := promptMessage(field)

	switch field.Type {
	case metadata.FieldTypePicklist:
		if len(field.Options) == 0 {
			return e.promptInput(ctx, field, message, current, session, nil)
		}
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, current),
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(field.Options) {
			session.SetValue(field.APIName, field.Options[idx])
		}
		return nil

	case metadata.FieldTypeMultiPicklist:
		options := field.Options
		if len(options) == 0 {
			options = rowset.DecodeMultiPicklist(current)
		}
		var defaults []int
		for i, option := range options {
			if rowset.MultiPicklistContains(current, option) {
				defaults = append(defaults, i)
			}
		}
		indices, err := e.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  options,
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		selection := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(options) {
				selection = append(selection, options[idx])
			}
		}
		session.SetValue(field.APIName, rowset.EncodeMultiPicklist(selection))
		return nil

	case metadata.FieldTypeTextarea:
		answer, err := e.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current})
		if err != nil {
			return err
		}
		session.SetValue(field.APIName, answer)
		return nil

	case metadata.FieldTypeDate:
		return e.promptInput(ctx, field, message, current, session, func(value string) error {
			if value == "" {
				return nil
			}
			if _, err := time.Parse("2006-01-02", value); err != nil {
				return fmt.Errorf("enter a date as YYYY-MM-DD")
			}
			return nil
		})

	case metadata.FieldTypeDouble:
		return e.promptInput(ctx, field, message, current, session, func(value string) error {
			if value == "" {
				return nil
			}
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fmt.Errorf("enter a number")
			}
			return nil
		})

	default:
		// STRING, EMAIL, PHONE and unknown types prompt as plain text;
		// format problems surface through session validation.
		return e.promptInput(ctx, field, message, current, session, nil)
	}
}

func (e *Editor) promptInput(ctx context.Context, field metadata.FieldDescriptor, message, current string, session *form.Session, validator func(string) error) error {
	answer, err := e.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   current,
		Validator: validator,
	})
	if err != nil {
		return err
	}
	session.SetValue(field.APIName, answer)
	return nil
}

func promptMessage(field metadata.FieldDescriptor) string {
	label := field.Label
	if label == "" {
		label = metadata.DefaultLabeler(field.APIName)
	}
	if field.Required {
		return label + " *"
	}
	return label
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return 0
}
