// Package memberportal ties the metadata, form and rendering packages
// together behind a small convenience surface. Callers with custom wiring
// should use the underlying packages directly.
package memberportal

import (
	"context"

	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/render"
	"github.com/goliatone/go-memberportal/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// ErrorMapping aliases render.ErrorMapping for callers translating CRM
// error payloads into per-field messages.
type ErrorMapping = render.ErrorMapping

// BuildSection maps a raw describe payload into descriptor form using the
// default mapper and embedded picklist catalog.
func BuildSection(raw metadata.RawSection) (metadata.Section, []metadata.Issue, error) {
	return metadata.NewMapper().MapSection(raw)
}

// RenderHTML builds the section from raw metadata and renders it with the
// vanilla renderer. It is the simplest entry point for callers that just
// want form markup.
func RenderHTML(ctx context.Context, raw metadata.RawSection, opts RenderOptions) ([]byte, []metadata.Issue, error) {
	section, issues, err := BuildSection(raw)
	if err != nil {
		return nil, issues, err
	}
	renderer, err := vanilla.New()
	if err != nil {
		return nil, issues, err
	}
	out, err := renderer.RenderSection(ctx, section, opts)
	return out, issues, err
}

// RenderSectionHTML renders a pre-built section, bypassing the mapping
// stage.
func RenderSectionHTML(ctx context.Context, section metadata.Section, opts RenderOptions) ([]byte, error) {
	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	return renderer.RenderSection(ctx, section, opts)
}
