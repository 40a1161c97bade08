package generator

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modgen/modgen/cli/templates"
)

var testSkeletons = fstest.MapFS{
	"module/class.php.tmpl": {Data: []byte(
		"<?php\nnamespace Drupal\\{{ .module }};\nclass {{ .class_name }} {}\n")},
	"module/routing.yml.tmpl": {Data: []byte(
		"{{ .route_name }}:\n  path: '{{ .route }}'\n")},
	"module/constructor.php.tmpl": {Data: []byte(dedentText(`
		public function __construct({{ join (servicesAsParameters .services) ", " }}) {
		{{ serviceClassInitialization .services }}
		}
		public static function create(ContainerInterface $container) {
		  return new static(
		{{ serviceClassInjection .services }}
		  );
		}
		public function content({{ join (argumentsFromRoute .route) ", " }}) {}
		arguments: [{{ join (servicesAsParametersKeys .services) ", " }}]
		tags: { {{ join (tagsAsArray .tags) ", " }} }
		`))},
}

// dedentText removes common indentation and the leading new line.
func dedentText(text string) string {
	return strings.TrimPrefix(dedent.Dedent(text), "\n")
}

func newTestGenerator(t *testing.T) (*Generator, string) {
	t.Helper()
	root := t.TempDir()
	resolver := NewPathResolver(root, newMockLocator(map[string]string{
		"demo": "modules/custom/demo",
	}))
	g := NewGenerator(resolver)
	g.SetSkeletonDirs(testSkeletons)
	return g, root
}

func TestRender(t *testing.T) {
	g, _ := newTestGenerator(t)

	text, err := g.Render("module/class.php.tmpl", Params{
		"module":     "demo",
		"class_name": "DemoController",
		"unused":     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "<?php\nnamespace Drupal\\demo;\nclass DemoController {}\n", text)

	text, err = g.RenderView("module/class.php.tmpl", Params{
		"module":     "demo",
		"class_name": "DemoForm",
	})
	require.NoError(t, err)
	assert.Contains(t, text, "class DemoForm {}")

	_, err = g.Render("module/class.php.tmpl", Params{"module": "demo"})
	require.ErrorContains(t, err, `map has no entry for key "class_name"`)

	_, err = g.Render("module/missing.tmpl", Params{})
	require.ErrorIs(t, err, templates.ErrTemplateNotFound)
}

func TestRenderFormattingFunctions(t *testing.T) {
	g, _ := newTestGenerator(t)

	text, err := g.Render("module/constructor.php.tmpl", Params{
		"services": testServices,
		"route":    "/demo/{node}/{user}",
		"tags":     Tags{{Key: "name", Value: "event_subscriber"}},
	})
	require.NoError(t, err)

	expected := dedentText(`
		public function __construct(Request $request, EntityManager $entity_manager) {
		    $this->request = $request;
		    $this->entity_manager = $entity_manager;
		}
		public static function create(ContainerInterface $container) {
		  return new static(
		      $container->get('request_stack'),
		      $container->get('entity.manager')
		  );
		}
		public function content($node, $user) {}
		arguments: ["@request_stack", "@entity.manager"]
		tags: { name: event_subscriber }
		`)
	assert.Equal(t, expected, text)
}

func TestRenderFile(t *testing.T) {
	g, root := newTestGenerator(t)

	controllerPath, err := g.ControllerPath("demo")
	require.NoError(t, err)
	classFile := filepath.Join(controllerPath, "DemoController.php")
	require.NoError(t, g.RenderFile("module/class.php.tmpl", classFile, Params{
		"module":     "demo",
		"class_name": "DemoController",
	}, WriteTruncate))
	require.FileExists(t, classFile)

	modulePath, err := g.ModulePath("demo")
	require.NoError(t, err)
	routingFile := modulePath + "/demo.routing.yml"
	require.NoError(t, g.RenderFile("module/routing.yml.tmpl", routingFile, Params{
		"route_name": "demo.content",
		"route":      "/demo",
	}, WriteTruncate))

	assert.Equal(t, []string{
		"modules/custom/demo/src/Controller/DemoController.php",
		"modules/custom/demo/demo.routing.yml",
	}, g.Files())

	// Append mode concatenates.
	require.NoError(t, g.RenderFile("module/routing.yml.tmpl", routingFile, Params{
		"route_name": "demo.list",
		"route":      "/demo/list",
	}, WriteAppend))
	buf, err := os.ReadFile(routingFile)
	require.NoError(t, err)
	assert.Equal(t, "demo.content:\n  path: '/demo'\ndemo.list:\n  path: '/demo/list'\n",
		string(buf))

	// Truncate mode overwrites.
	require.NoError(t, g.RenderFile("module/routing.yml.tmpl", routingFile, Params{
		"route_name": "demo.other",
		"route":      "/other",
	}, WriteTruncate))
	buf, err = os.ReadFile(routingFile)
	require.NoError(t, err)
	assert.Equal(t, "demo.other:\n  path: '/other'\n", string(buf))

	// The list is never deduplicated.
	files := g.Files()
	require.Len(t, files, 4)
	assert.Equal(t, files[1], files[3])
	assert.NotContains(t, files[0], root)
}

func TestRenderFileOutsideRoot(t *testing.T) {
	g, _ := newTestGenerator(t)
	target := filepath.Join(t.TempDir(), "a", "b", "Class.php")
	require.NoError(t, g.RenderFile("module/class.php.tmpl", target, Params{
		"module":     "demo",
		"class_name": "Class",
	}, WriteTruncate))
	assert.Equal(t, []string{target}, g.Files())
}

func TestRenderFileErrors(t *testing.T) {
	g, root := newTestGenerator(t)
	params := Params{"module": "demo", "class_name": "Class"}

	// Target is a directory.
	dirTarget := filepath.Join(root, "dir")
	require.NoError(t, os.MkdirAll(dirTarget, 0o755))
	err := g.RenderFile("module/class.php.tmpl", dirTarget, params, WriteTruncate)
	require.ErrorIs(t, err, ErrWriteFailed)

	// Parent is a regular file.
	fileParent := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(fileParent, []byte{}, 0o644))
	err = g.RenderFile("module/class.php.tmpl", filepath.Join(fileParent, "Class.php"),
		params, WriteTruncate)
	require.ErrorIs(t, err, ErrWriteFailed)

	// Render errors are returned as is, directories are kept.
	target := filepath.Join(root, "new", "dir", "Class.php")
	err = g.RenderFile("module/class.php.tmpl", target, Params{}, WriteTruncate)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrWriteFailed)
	assert.DirExists(t, filepath.Join(root, "new", "dir"))
	assert.NoFileExists(t, target)

	assert.Empty(t, g.Files())
}

// mockEngine records registered functions.
type mockEngine struct {
	searchDirs []fs.FS
	funcs      map[string]any
}

func (engine *mockEngine) RegisterFunction(name string, fn any) {
	engine.funcs[name] = fn
}

func (engine *mockEngine) RenderTemplate(name string, data any) (string, error) {
	return name, nil
}

func (engine *mockEngine) RenderText(in string, data any) (string, error) {
	return in, nil
}

func TestRenderCreatesEngine(t *testing.T) {
	g, _ := newTestGenerator(t)
	var engines []*mockEngine
	g.newEngine = func(searchDirs ...fs.FS) templates.TemplateEngine {
		engine := &mockEngine{searchDirs: searchDirs, funcs: map[string]any{}}
		engines = append(engines, engine)
		return engine
	}
	other := fstest.MapFS{}
	g.SetSkeletonDirs(other, testSkeletons)

	for i := 0; i < 2; i++ {
		text, err := g.Render("x.tmpl", nil)
		require.NoError(t, err)
		assert.Equal(t, "x.tmpl", text)
	}

	require.Len(t, engines, 2)
	assert.NotSame(t, engines[0], engines[1])
	for _, engine := range engines {
		assert.Len(t, engine.searchDirs, 2)
		for _, name := range []string{
			"servicesAsParameters",
			"servicesAsParametersKeys",
			"argumentsFromRoute",
			"serviceClassInitialization",
			"serviceClassInjection",
			"tagsAsArray",
		} {
			assert.Contains(t, engine.funcs, name)
		}
	}
}

func TestSetSkeletonDirsCopies(t *testing.T) {
	g, _ := newTestGenerator(t)
	dirs := []fs.FS{fstest.MapFS{}}
	g.SetSkeletonDirs(dirs...)
	dirs[0] = testSkeletons

	_, err := g.Render("module/class.php.tmpl", Params{"module": "a", "class_name": "B"})
	require.ErrorIs(t, err, templates.ErrTemplateNotFound)
}

func TestDirSkeletons(t *testing.T) {
	specific := t.TempDir()
	common := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(specific, "a.tmpl"), []byte("specific"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(common, "a.tmpl"), []byte("common"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(common, "b.tmpl"), []byte("common b"), 0o644))

	g, _ := newTestGenerator(t)
	g.SetSkeletonDirs(DirSkeletons(specific, common)...)

	text, err := g.Render("a.tmpl", nil)
	require.NoError(t, err)
	assert.Equal(t, "specific", text)

	text, err = g.Render("b.tmpl", nil)
	require.NoError(t, err)
	assert.Equal(t, "common b", text)
}

type mockTranslator struct{}

func (mockTranslator) Trans(key string) string {
	return "translated " + key
}

func TestTranslator(t *testing.T) {
	g, _ := newTestGenerator(t)
	assert.Nil(t, g.Translator())

	g.SetTranslator(mockTranslator{})
	require.NotNil(t, g.Translator())
	assert.Equal(t, "translated x", g.Translator().Trans("x"))
}

func TestPreview(t *testing.T) {
	g, root := newTestGenerator(t)
	target := filepath.Join(root, "demo.routing.yml")
	params := Params{"route_name": "demo.content", "route": "/demo"}

	diff, err := g.Preview("module/routing.yml.tmpl", target, params, WriteTruncate)
	require.NoError(t, err)
	assert.Contains(t, diff, "+++ b/demo.routing.yml")
	assert.Contains(t, diff, "+demo.content:\n")
	assert.NoFileExists(t, target)
	assert.Empty(t, g.Files())

	require.NoError(t, os.WriteFile(target, []byte("existing:\n  path: '/x'\n"), 0o644))
	diff, err = g.Preview("module/routing.yml.tmpl", target, params, WriteAppend)
	require.NoError(t, err)
	assert.NotContains(t, diff, "-existing:")
	assert.Contains(t, diff, "+demo.content:\n")

	diff, err = g.Preview("module/routing.yml.tmpl", target, params, WriteTruncate)
	require.NoError(t, err)
	assert.Contains(t, diff, "-existing:\n")
}
