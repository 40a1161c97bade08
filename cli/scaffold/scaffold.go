// Package scaffold plans and generates module artifacts from skeleton templates.
package scaffold

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/apex/log"
	"github.com/iancoleman/strcase"

	"github.com/modgen/modgen/cli/generator"
	"github.com/modgen/modgen/cli/util"
)

// ErrFileExists is reported when a file would be overwritten without permission.
var ErrFileExists = errors.New("file already exists")

// File is a skeleton template instantiation planned by an artifact.
type File struct {
	// Template is a skeleton template name.
	Template string
	// Target is the destination file path.
	Target string
	// Mode defines how the destination is written.
	Mode generator.WriteMode
	// Params are template parameters.
	Params generator.Params
}

// Artifact is a module construct that can be generated.
type Artifact interface {
	// Name returns the artifact name.
	Name() string
	// Plan returns the files to generate.
	Plan(g *generator.Generator) ([]File, error)
}

// RunOpts contains options of artifact generation.
type RunOpts struct {
	// DryRun prints diffs instead of writing files.
	DryRun bool
	// Force overwrites existing files without confirmation.
	Force bool
	// Vars are extra template parameters. Artifact parameters take precedence.
	Vars generator.Params
	// Confirm asks whether an existing file may be overwritten. Existing files
	// are never overwritten without Force if it is nil.
	Confirm func(question string) (bool, error)
	// Out receives dry run diffs.
	Out io.Writer
}

// Run generates artifact files using g.
func Run(g *generator.Generator, artifact Artifact, opts RunOpts) error {
	files, err := artifact.Plan(g)
	if err != nil {
		return err
	}
	log.Debugf("Generating %s: %d file(s).", artifact.Name(), len(files))

	if opts.DryRun {
		for _, file := range files {
			diff, err := g.Preview(file.Template, file.Target,
				mergeParams(opts.Vars, file.Params), file.Mode)
			if err != nil {
				return fmt.Errorf("failed to preview %s: %w", file.Target, err)
			}
			if opts.Out != nil {
				fmt.Fprint(opts.Out, diff)
			}
		}
		return nil
	}

	if !opts.Force {
		if err = checkOverwrites(files, opts.Confirm); err != nil {
			return err
		}
	}

	for _, file := range files {
		err = g.RenderFile(file.Template, file.Target,
			mergeParams(opts.Vars, file.Params), file.Mode)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", artifact.Name(), err)
		}
	}
	return nil
}

// checkOverwrites asks for permission to replace existing files.
func checkOverwrites(files []File, confirm func(string) (bool, error)) error {
	for _, file := range files {
		if file.Mode != generator.WriteTruncate || !util.IsRegularFile(file.Target) {
			continue
		}
		overwrite := false
		if confirm != nil {
			var err error
			overwrite, err = confirm(fmt.Sprintf("%s already exists. Overwrite?", file.Target))
			if err != nil {
				return err
			}
		}
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrFileExists, file.Target)
		}
	}
	return nil
}

// mergeParams returns vars overridden by params.
func mergeParams(vars generator.Params, params generator.Params) generator.Params {
	merged := make(generator.Params, len(vars)+len(params))
	maps.Copy(merged, vars)
	maps.Copy(merged, params)
	return merged
}

// ParseService parses a "name[=ShortType]" service definition.
func ParseService(definition string) (generator.Service, error) {
	name, short, _ := strings.Cut(definition, "=")
	name = strings.TrimSpace(name)
	short = strings.TrimSpace(short)
	if name == "" {
		return generator.Service{}, fmt.Errorf("invalid service definition %q: empty name",
			definition)
	}
	machineName := strings.ReplaceAll(name, ".", "_")
	if short == "" {
		short = strcase.ToCamel(machineName)
	}
	return generator.Service{Short: short, MachineName: machineName, Name: name}, nil
}

// ParseServices parses service definitions.
func ParseServices(definitions []string) ([]generator.Service, error) {
	services := make([]generator.Service, 0, len(definitions))
	for _, definition := range definitions {
		service, err := ParseService(definition)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, nil
}

// ParseTag parses a "key=value" tag pair.
func ParseTag(definition string) (generator.Tag, error) {
	key, value, found := strings.Cut(definition, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return generator.Tag{}, fmt.Errorf("invalid tag %q: expected key=value", definition)
	}
	return generator.Tag{Key: key, Value: strings.TrimSpace(value)}, nil
}

// ParseTags parses tag pairs keeping their order.
func ParseTags(definitions []string) (generator.Tags, error) {
	tags := make(generator.Tags, 0, len(definitions))
	for _, definition := range definitions {
		tag, err := ParseTag(definition)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
