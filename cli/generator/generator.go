// Package generator renders skeleton templates into files of CMS modules and
// keeps track of the files it has written.
package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/modgen/modgen/cli/templates"
	"github.com/modgen/modgen/cli/util"
)

// ErrWriteFailed is reported when a rendered file could not be written.
var ErrWriteFailed = errors.New("failed to write generated file")

// Params is a set of template parameters.
type Params map[string]any

// WriteMode defines how a rendered file is written.
type WriteMode int

const (
	// WriteTruncate replaces the file content.
	WriteTruncate WriteMode = iota
	// WriteAppend appends to the file content.
	WriteAppend
)

// Translator looks up translated messages.
type Translator interface {
	Trans(key string) string
}

// EngineFactory creates a template engine over the search dirs.
type EngineFactory func(searchDirs ...fs.FS) templates.TemplateEngine

// Generator renders skeleton templates into module files.
type Generator struct {
	*PathResolver

	// skeletonDirs is an ordered set of template search dirs, the most specific first.
	skeletonDirs []fs.FS
	// newEngine creates a template engine for each render.
	newEngine EngineFactory
	// translator is kept for callers and is never used by the generator.
	translator Translator
	// files is a list of written files relative to the install root.
	files []string
}

// NewGenerator creates a generator resolving module paths with resolver.
func NewGenerator(resolver *PathResolver) *Generator {
	return &Generator{
		PathResolver: resolver,
		newEngine:    templates.NewDefaultEngine,
	}
}

// DirSkeletons returns skeleton dirs for the directories on disk.
func DirSkeletons(dirs ...string) []fs.FS {
	skeletons := make([]fs.FS, 0, len(dirs))
	for _, dir := range dirs {
		skeletons = append(skeletons, os.DirFS(dir))
	}
	return skeletons
}

// SetSkeletonDirs sets the template search dirs. The dirs must be sorted from
// the most specific to the most generic one.
func (g *Generator) SetSkeletonDirs(skeletonDirs ...fs.FS) {
	g.skeletonDirs = slices.Clone(skeletonDirs)
}

// SetTranslator sets the translator.
func (g *Generator) SetTranslator(translator Translator) {
	g.translator = translator
}

// Translator returns the translator set with SetTranslator.
func (g *Generator) Translator() Translator {
	return g.translator
}

// Files returns the written files relative to the install root, in order of writing.
func (g *Generator) Files() []string {
	return slices.Clone(g.files)
}

// Render renders templateID template with params. An undefined variable
// referenced by the template is an error.
func (g *Generator) Render(templateID string, params Params) (string, error) {
	engine := g.newEngine(g.skeletonDirs...)
	for name, fn := range formattingFuncs {
		engine.RegisterFunction(name, fn)
	}
	return engine.RenderTemplate(templateID, params)
}

// RenderView renders templateID template with params. It is the same as
// Render, for callers that only need the text.
func (g *Generator) RenderView(templateID string, params Params) (string, error) {
	return g.Render(templateID, params)
}

// RenderFile renders templateID template with params into target, creating
// missing parent directories. Rendering errors are returned as is, any write
// failure is reported as ErrWriteFailed. Already created directories are kept.
func (g *Generator) RenderFile(templateID string, target string, params Params,
	mode WriteMode,
) error {
	if err := util.CreateDirectory(filepath.Dir(target), 0o777); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteFailed, target, err)
	}

	text, err := g.Render(templateID, params)
	if err != nil {
		return err
	}

	if err = writeFile(target, text, mode); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteFailed, target, err)
	}

	relPath := g.relativeToRoot(target)
	g.files = append(g.files, relPath)
	log.Debugf("%s is generated from %s.", relPath, templateID)
	return nil
}

// Preview renders templateID template and returns a unified diff between the
// current content of target and the content RenderFile would leave there.
func (g *Generator) Preview(templateID string, target string, params Params,
	mode WriteMode,
) (string, error) {
	text, err := g.RenderView(templateID, params)
	if err != nil {
		return "", err
	}

	current, err := os.ReadFile(target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read %s: %w", target, err)
	}
	if mode == WriteAppend {
		text = string(current) + text
	}

	relPath := g.relativeToRoot(target)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(text),
		FromFile: "a/" + relPath,
		ToFile:   "b/" + relPath,
		Context:  3,
	})
}

// relativeToRoot strips the install root prefix from target.
func (g *Generator) relativeToRoot(target string) string {
	return strings.TrimPrefix(target, g.Root()+"/")
}

// writeFile writes text to target according to mode.
func writeFile(target string, text string, mode WriteMode) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if mode == WriteAppend {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	file, err := os.OpenFile(target, flags, 0o666)
	if err != nil {
		return err
	}
	if _, err = file.WriteString(text); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
