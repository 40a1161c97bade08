package templates

import (
	"io/fs"

	"github.com/modgen/modgen/cli/templates/internal/engines"
)

// ErrTemplateNotFound is reported when a template is missing from all search dirs.
var ErrTemplateNotFound = engines.ErrTemplateNotFound

// TemplateEngine is an interface to support to use for skeleton instantiation.
type TemplateEngine interface {
	// RegisterFunction makes fn callable from templates under name.
	RegisterFunction(name string, fn any)

	// RenderTemplate looks name up in the search dirs and applies data to it.
	// Returns instantiated text.
	RenderTemplate(name string, data any) (string, error)

	// RenderText applies data to the template text. Returns instantiated text.
	RenderText(in string, data any) (string, error)
}

// NewDefaultEngine creates and returns default template engine. Templates are
// searched in searchDirs in the given order, the first match wins.
func NewDefaultEngine(searchDirs ...fs.FS) TemplateEngine {
	return engines.NewGoTextEngine(searchDirs...)
}
