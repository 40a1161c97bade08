package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/modgen/modgen/cli/discovery"
	"github.com/modgen/modgen/cli/generator"
	"github.com/modgen/modgen/cli/scaffold"
	"github.com/modgen/modgen/cli/scaffold/builtin_templates"
	"github.com/modgen/modgen/cli/summary"
	"github.com/modgen/modgen/cli/util"
)

// generateFlags are flags shared by all artifacts.
type generateFlags struct {
	module   string
	class    string
	services []string
	tags     []string
	vars     []string
	varsFile string
	dryRun   bool
	force    bool
	tree     bool
}

var (
	genFlags generateFlags

	// errNoModule is returned if the module is neither specified nor selected.
	errNoModule = util.NewArgError(`module name is required: ` +
		`specify it with the --module option.`)
)

// artifactBuilder creates an artifact from the command flags and template
// variables.
type artifactBuilder func(vars generator.Params) (scaffold.Artifact, error)

// NewGenerateCmd creates a command generating module artifacts.
func NewGenerateCmd() *cobra.Command {
	var generateCmd = &cobra.Command{
		Use:     "generate <ARTIFACT> [flags]",
		Aliases: []string{"gen"},
		Short:   "Generate module code from skeleton templates",
		Example: `
# Generate a controller with an injected service.

    $ modgen generate controller --module demo --class DemoController \
        --route '/demo/{node}' --service entity_type.manager

# Show the changes a service definition would make.

    $ modgen generate service -m demo -C DemoManager --tag name=event_subscriber --dry-run`,
	}

	flags := generateCmd.PersistentFlags()
	flags.StringVarP(&genFlags.module, "module", "m", "", "Module name")
	flags.StringVarP(&genFlags.class, "class", "C", "", "Class name")
	flags.StringArrayVar(&genFlags.services, "service", nil,
		"Injected service as name[=ShortType]")
	flags.StringArrayVar(&genFlags.tags, "tag", nil, "Service tag as key=value")
	flags.StringArrayVar(&genFlags.vars, "var", nil, "Template variable as key=value")
	flags.StringVar(&genFlags.varsFile, "vars-file", "", "YAML file with template variables")
	flags.BoolVar(&genFlags.dryRun, "dry-run", false, "Show changes without writing files")
	flags.BoolVarP(&genFlags.force, "force", "f", false, "Overwrite existing files")
	flags.BoolVar(&genFlags.tree, "tree", false, "Show generated files as a tree")
	generateCmd.RegisterFlagCompletionFunc("module", completeModules)

	generateCmd.AddCommand(
		newControllerCmd(),
		newFormCmd(),
		newPluginCmd(),
		newCommandCmd(),
		newServiceCmd(),
		newEntityCmd(),
		newAuthenticationCmd(),
		newTestCmd(),
	)
	return generateCmd
}

// newArtifactCmd creates a command generating the artifact built by build.
func newArtifactCmd(use string, short string, build artifactBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmdCtx.CommandName = cmd.Name()
			err := internalGenerateModule(cmd.OutOrStdout(), build)
			util.HandleCmdErr(cmd, err)
		},
	}
}

func newControllerCmd() *cobra.Command {
	var controller scaffold.Controller
	cmd := newArtifactCmd("controller", "Generate a controller with a route",
		func(vars generator.Params) (scaffold.Artifact, error) {
			var err error
			controller.Module, controller.Class = genFlags.module, genFlags.class
			controller.Services, err = parseServices(vars)
			return controller, err
		})
	cmd.Flags().StringVar(&controller.Method, "method", "", "Controller method")
	cmd.Flags().StringVar(&controller.Route, "route", "", "Route path")
	cmd.Flags().StringVar(&controller.Title, "title", "", "Page title")
	cmd.Flags().BoolVar(&controller.Test, "test", false, "Generate a controller test")
	return cmd
}

func newFormCmd() *cobra.Command {
	var form scaffold.Form
	cmd := newArtifactCmd("form", "Generate a configuration form with a route",
		func(vars generator.Params) (scaffold.Artifact, error) {
			var err error
			form.Module, form.Class = genFlags.module, genFlags.class
			form.Services, err = parseServices(vars)
			return form, err
		})
	cmd.Flags().StringVar(&form.FormID, "form-id", "", "Form ID")
	cmd.Flags().StringVar(&form.Route, "route", "", "Route path")
	cmd.Flags().StringVar(&form.Title, "title", "", "Form title")
	cmd.Flags().StringVar(&form.ConfigName, "config-name", "", "Edited configuration name")
	return cmd
}

func newPluginCmd() *cobra.Command {
	var plugin scaffold.Plugin
	cmd := newArtifactCmd("plugin", "Generate a block plugin",
		func(vars generator.Params) (scaffold.Artifact, error) {
			var err error
			plugin.Module, plugin.Class = genFlags.module, genFlags.class
			plugin.Services, err = parseServices(vars)
			return plugin, err
		})
	cmd.Flags().StringVar(&plugin.PluginID, "plugin-id", "", "Plugin ID")
	cmd.Flags().StringVar(&plugin.Label, "label", "", "Block admin label")
	return cmd
}

func newCommandCmd() *cobra.Command {
	var command scaffold.Command
	cmd := newArtifactCmd("command", "Generate a console command",
		func(vars generator.Params) (scaffold.Artifact, error) {
			command.Module, command.Class = genFlags.module, genFlags.class
			return command, nil
		})
	cmd.Flags().StringVar(&command.CommandName, "name", "", "Command name")
	cmd.Flags().StringVar(&command.Description, "description", "", "Command description")
	return cmd
}

func newServiceCmd() *cobra.Command {
	var service scaffold.Service
	cmd := newArtifactCmd("service", "Generate a service class and its definition",
		func(vars generator.Params) (scaffold.Artifact, error) {
			var err error
			service.Module, service.Class = genFlags.module, genFlags.class
			if service.Services, err = parseServices(vars); err != nil {
				return nil, err
			}
			if service.Tags, err = scaffold.ParseTags(genFlags.tags); err != nil {
				return nil, util.NewArgError(err.Error())
			}
			return service, nil
		})
	cmd.Flags().StringVar(&service.ServiceName, "name", "", "Service name")
	return cmd
}

func newEntityCmd() *cobra.Command {
	var entity scaffold.Entity
	cmd := newArtifactCmd("entity", "Generate a configuration entity type",
		func(vars generator.Params) (scaffold.Artifact, error) {
			entity.Module, entity.Class = genFlags.module, genFlags.class
			return entity, nil
		})
	cmd.Flags().StringVar(&entity.EntityID, "entity-id", "", "Entity type ID")
	cmd.Flags().StringVar(&entity.Label, "label", "", "Entity type label")
	return cmd
}

func newAuthenticationCmd() *cobra.Command {
	var provider scaffold.Authentication
	cmd := newArtifactCmd("authentication", "Generate an authentication provider",
		func(vars generator.Params) (scaffold.Artifact, error) {
			var err error
			provider.Module, provider.Class = genFlags.module, genFlags.class
			provider.Services, err = parseServices(vars)
			return provider, err
		})
	cmd.Flags().StringVar(&provider.ProviderID, "provider-id", "", "Provider ID")
	cmd.Flags().IntVar(&provider.Priority, "priority", 0, "Provider priority")
	return cmd
}

func newTestCmd() *cobra.Command {
	var test scaffold.Test
	cmd := newArtifactCmd("test", "Generate a web test",
		func(vars generator.Params) (scaffold.Artifact, error) {
			test.Module, test.Class = genFlags.module, genFlags.class
			return test, nil
		})
	cmd.Flags().StringVar(&test.Type, "type", "", "Test group")
	return cmd
}

// parseServices parses --service flags followed by the services of vars.
func parseServices(vars generator.Params) ([]generator.Service, error) {
	services, err := scaffold.ParseServices(genFlags.services)
	if err != nil {
		return nil, util.NewArgError(err.Error())
	}
	if varsServices, ok := vars["services"].([]generator.Service); ok {
		services = append(services, varsServices...)
	}
	return services, nil
}

// parseVars collects template variables from the vars file and --var flags.
func parseVars() (generator.Params, error) {
	vars := generator.Params{}
	if genFlags.varsFile != "" {
		fileVars, err := util.ParseYAML(genFlags.varsFile)
		if err != nil {
			return nil, err
		}
		for key, value := range fileVars {
			vars[key] = value
		}
	}
	for _, definition := range genFlags.vars {
		key, value, found := strings.Cut(definition, "=")
		if !found || key == "" {
			return nil, util.NewArgError(fmt.Sprintf(
				"invalid variable %q: expected key=value", definition))
		}
		vars[key] = value
	}
	if value, ok := vars["services"]; ok {
		services, err := generator.DecodeServices(value)
		if err != nil {
			return nil, util.NewArgError(fmt.Sprintf("invalid services variable: %s", err))
		}
		vars["services"] = services
	}
	return vars, nil
}

// isInteractive returns true if the user can answer questions.
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// chooseModule shows a menu in terminal to choose a site module.
func chooseModule(scanner *discovery.Scanner) (string, error) {
	modules, err := scanner.List()
	if err != nil {
		return "", err
	}
	if len(modules) == 0 {
		return "", fmt.Errorf("there are no modules in %s", scanner.Root)
	}
	names := make([]string, 0, len(modules))
	for _, module := range modules {
		names = append(names, module.Name)
	}
	moduleSelect := promptui.Select{
		Label:        "Select module",
		Items:        names,
		HideSelected: true,
	}
	_, module, err := moduleSelect.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return "", util.ErrCmdAbort
	}
	return module, err
}

// newGenerator creates a generator for the configured site and skeletons.
func newGenerator(locator generator.ModuleLocator) *generator.Generator {
	g := generator.NewGenerator(generator.NewPathResolver(cmdCtx.Cli.Root, locator))
	skeletonDirs := generator.DirSkeletons(cmdCtx.Cli.SkeletonDirs...)
	g.SetSkeletonDirs(append(skeletonDirs, builtin_templates.Skeletons())...)
	g.SetTranslator(newMessages())
	return g
}

// internalGenerateModule generates the artifact created by build.
func internalGenerateModule(w io.Writer, build artifactBuilder) error {
	scanner := discovery.NewScanner(cmdCtx.Cli.Root)
	if genFlags.module == "" {
		if !isInteractive() {
			return errNoModule
		}
		var err error
		if genFlags.module, err = chooseModule(scanner); err != nil {
			return err
		}
	}

	vars, err := parseVars()
	if err != nil {
		return err
	}
	artifact, err := build(vars)
	if err != nil {
		return err
	}

	g := newGenerator(scanner)
	opts := scaffold.RunOpts{
		DryRun: genFlags.dryRun,
		Force:  genFlags.force,
		Vars:   vars,
		Out:    w,
	}
	if isInteractive() {
		opts.Confirm = func(question string) (bool, error) {
			return util.AskConfirm(os.Stdin, question)
		}
	}
	if err = scaffold.Run(g, artifact, opts); err != nil {
		return err
	}
	if genFlags.dryRun {
		return nil
	}

	if genFlags.tree {
		if err = summary.PrintTree(w, g.Root(), g.Files()); err != nil {
			return err
		}
	} else {
		summary.Print(w, g.Root(), g.Files())
	}
	log.Info(g.Translator().Trans(messageGenerated))
	return nil
}
