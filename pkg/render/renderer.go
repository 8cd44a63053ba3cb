package render

import (
	"context"

	"github.com/goliatone/go-memberportal/pkg/metadata"
)

// Renderer converts a descriptor section plus current values into a byte
// representation (HTML for the web chrome, prompt output for the terminal).
type Renderer interface {
	Name() string
	ContentType() string
	RenderSection(ctx context.Context, section metadata.Section, options RenderOptions) ([]byte, error)
}
