package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/render"
	rendertemplate "github.com/goliatone/go-memberportal/pkg/render/template"
	gotemplate "github.com/goliatone/go-memberportal/pkg/render/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	controls         *ControlRegistry
	textareaMaxLen   int
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithControls overrides the control registry.
func WithControls(registry *ControlRegistry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.controls = registry
		}
	}
}

// WithTextareaMaxLength caps textarea values, truncating at the input
// boundary.
func WithTextareaMaxLength(limit int) Option {
	return func(cfg *config) {
		if limit > 0 {
			cfg.textareaMaxLen = limit
		}
	}
}

// Renderer produces the portal's HTML form markup for a descriptor section.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	fields    fieldRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.controls == nil {
		cfg.controls = NewControlRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		fields: fieldRenderer{
			controls:       cfg.controls,
			textareaMaxLen: cfg.textareaMaxLen,
		},
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderSection renders the section's fields plus any child groups inside the
// form chrome template.
func (r *Renderer) RenderSection(_ context.Context, section metadata.Section, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	method, hiddenMethod := submitMethod(opts.Method)

	groups := make([]map[string]any, 0, len(section.Groups))
	for _, group := range section.Groups {
		groups = append(groups, map[string]any{
			"name":   group.Name,
			"fields": r.renderFields(group.Fields, opts),
		})
	}

	result, err := r.templates.RenderTemplate("templates/section.tmpl", map[string]any{
		"name":          section.Name,
		"action":        opts.Action,
		"method":        method,
		"hidden_method": hiddenMethod,
		"fields":        r.renderFields(section.Fields, opts),
		"groups":        groups,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderFields(fields []metadata.FieldDescriptor, opts render.RenderOptions) string {
	var builder strings.Builder
	for _, field := range fields {
		builder.WriteString(r.fields.renderField(field, opts))
	}
	return builder.String()
}

// submitMethod translates non-browser verbs into POST plus a hidden _method
// value.
func submitMethod(method string) (string, string) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case "", http.MethodPost:
		return http.MethodPost, ""
	case http.MethodGet:
		return http.MethodGet, ""
	default:
		return http.MethodPost, method
	}
}
