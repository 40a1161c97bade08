package engines

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"text/template"

	"github.com/apex/log"
)

// ErrTemplateNotFound is reported when none of the search dirs has the template.
var ErrTemplateNotFound = errors.New("template not found")

// GoTextEngine renders templates using go text/template engine. Output is not
// escaped: generated files are source code, not markup.
type GoTextEngine struct {
	// searchDirs is an ordered set of directories to look templates up in,
	// the most specific first.
	searchDirs []fs.FS
	// funcs is a set of functions available to templates.
	funcs template.FuncMap
}

// NewGoTextEngine creates an engine over searchDirs with builtin functions registered.
func NewGoTextEngine(searchDirs ...fs.FS) *GoTextEngine {
	funcs := make(template.FuncMap, len(commonTemplateFuncs))
	for name, fn := range commonTemplateFuncs {
		funcs[name] = fn
	}
	return &GoTextEngine{
		searchDirs: append([]fs.FS{}, searchDirs...),
		funcs:      funcs,
	}
}

// RegisterFunction adds fn to the engine functions. Existing function with the
// same name is replaced.
func (engine *GoTextEngine) RegisterFunction(name string, fn any) {
	engine.funcs[name] = fn
}

// lookup returns the content of the first template called name found in search dirs.
func (engine *GoTextEngine) lookup(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid template name %q", name)
	}
	for i, dir := range engine.searchDirs {
		content, err := fs.ReadFile(dir, name)
		if err == nil {
			log.Debugf("Template %q is found in skeleton dir #%d.", name, i)
			return content, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading template %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %q is not found in %d skeleton dir(s)",
		ErrTemplateNotFound, name, len(engine.searchDirs))
}

// execute parses text as a template called name and applies data to it.
func (engine *GoTextEngine) execute(name string, text string, data any) (string, error) {
	parsedTemplate, err := template.New(name).Funcs(engine.funcs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("error parsing %s: %w", name, err)
	}
	parsedTemplate.Option("missingkey=error") // Treat missing variable as error.

	var buffer bytes.Buffer
	if err = parsedTemplate.Execute(&buffer, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buffer.String(), nil
}

// RenderTemplate renders name template found in search dirs. The template is
// read and parsed on every call.
func (engine *GoTextEngine) RenderTemplate(name string, data any) (string, error) {
	content, err := engine.lookup(name)
	if err != nil {
		return "", err
	}
	return engine.execute(path.Base(name), string(content), data)
}

// RenderText renders in text using go text/template engine.
func (engine *GoTextEngine) RenderText(in string, data any) (string, error) {
	return engine.execute("text", in, data)
}
