package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modgen/modgen/cli/cmdcontext"
)

func TestRootFlags(t *testing.T) {
	rootCmd = NewCmdRoot()
	rootCmd.ParseFlags([]string{"--cfg", "one.yaml", "-r", "/var/www", "-s", "a,b", "-V"})
	assert.Equal(t, "one.yaml", cmdCtx.Cli.ConfigPath)
	assert.Equal(t, "/var/www", cmdCtx.Cli.Root)
	assert.Equal(t, []string{"a", "b"}, cmdCtx.Cli.SkeletonDirs)
	assert.True(t, cmdCtx.Cli.Verbose)
}

// newTestSite creates a site with the demo module and makes it the working directory.
func newTestSite(t *testing.T) string {
	t.Helper()
	site := t.TempDir()
	moduleDir := filepath.Join(site, "modules", "custom", "demo")
	require.NoError(t, os.MkdirAll(moduleDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "demo.info.yml"),
		[]byte("name: Demo\ntype: module\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(site, "core", "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(site, "core", "lib", "Drupal.php"),
		[]byte("<?php\n"), 0o644))
	t.Chdir(site)
	return site
}

// executeRoot runs the root command with fresh global state.
func executeRoot(t *testing.T, args ...string) string {
	t.Helper()
	cmdCtx = cmdcontext.CmdCtx{}
	genFlags = generateFlags{}
	rootCmd = NewCmdRoot()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestGenerate(t *testing.T) {
	color.NoColor = true
	site := newTestSite(t)

	out := executeRoot(t, "generate", "controller", "--module", "demo",
		"--class", "DemoController", "--route", "/demo/{node}",
		"--service", "entity_type.manager")
	assert.Contains(t, out, "Site path: "+site)
	assert.Contains(t, out, "1 - modules/custom/demo/src/Controller/DemoController.php")
	assert.Contains(t, out, "2 - modules/custom/demo/demo.routing.yml")

	controller, err := os.ReadFile(filepath.Join(site,
		"modules/custom/demo/src/Controller/DemoController.php"))
	require.NoError(t, err)
	assert.Contains(t, string(controller),
		"public function __construct(EntityTypeManager $entity_type_manager) {")
	assert.Contains(t, string(controller), "public function content($node) {")
}

func TestGenerateDryRun(t *testing.T) {
	site := newTestSite(t)

	out := executeRoot(t, "gen", "service", "-m", "demo", "-C", "DemoManager",
		"--tag", "name=event_subscriber", "--dry-run")
	assert.Contains(t, out, "+++ b/modules/custom/demo/demo.services.yml")
	assert.Contains(t, out, "+      - { name: event_subscriber }")
	assert.NoFileExists(t, filepath.Join(site, "modules/custom/demo/demo.services.yml"))
}

func TestGenerateVars(t *testing.T) {
	site := newTestSite(t)
	varsFile := filepath.Join(t.TempDir(), "vars.yaml")
	require.NoError(t, os.WriteFile(varsFile, []byte("services:\n"+
		"  - short: Connection\n    machine_name: database\n    name: database\n"), 0o644))

	executeRoot(t, "generate", "service", "-m", "demo", "-C", "Storage",
		"--service", "entity_type.manager", "--vars-file", varsFile, "--tree")
	class, err := os.ReadFile(filepath.Join(site, "modules/custom/demo/src/Storage.php"))
	require.NoError(t, err)
	assert.Contains(t, string(class),
		"EntityTypeManager $entity_type_manager, Connection $database")
	definition, err := os.ReadFile(filepath.Join(site, "modules/custom/demo/demo.services.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(definition), `"@entity_type.manager", "@database"`)

	executeRoot(t, "generate", "entity", "-m", "demo", "-C", "Flavor",
		"--var", "unused=1")
	assert.FileExists(t, filepath.Join(site, "modules/custom/demo/src/Entity/Flavor.php"))
}

func TestModules(t *testing.T) {
	newTestSite(t)
	out := executeRoot(t, "modules")
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "modules/custom/demo (Demo)")
}

func TestVersion(t *testing.T) {
	newTestSite(t)
	out := executeRoot(t, "version", "--short")
	assert.Equal(t, "<unknown>\n", out)
}

func TestCompletion(t *testing.T) {
	newTestSite(t)
	out := executeRoot(t, "completion", "bash")
	assert.Contains(t, out, "modgen")

	modules, directive := completeModules(nil, nil, "d")
	assert.Equal(t, []string{"demo\tDemo"}, modules)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
