package scaffold

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/modgen/modgen/cli/generator"
	"github.com/modgen/modgen/cli/util"
)

const (
	controllerTemplate     = "module/src/Controller/controller.php.tmpl"
	formTemplate           = "module/src/Form/form-config.php.tmpl"
	blockTemplate          = "module/src/Plugin/Block/block.php.tmpl"
	commandTemplate        = "module/src/Command/command.php.tmpl"
	entityTemplate         = "module/src/Entity/entity.php.tmpl"
	providerTemplate       = "module/src/Authentication/Provider/provider.php.tmpl"
	serviceTemplate        = "module/src/service.php.tmpl"
	testTemplate           = "module/Tests/test.php.tmpl"
	commandMessageTemplate = "module/translations/command.yml.tmpl"
	routingTemplate        = "module/routing.yml.tmpl"
	servicesTemplate       = "module/services.yml.tmpl"
)

var (
	errNoModule = util.NewArgError("module name is not specified")
	errNoClass  = util.NewArgError("class name is not specified")
)

// checkNames validates the names every artifact needs.
func checkNames(module string, class string) error {
	if module == "" {
		return errNoModule
	}
	if class == "" {
		return errNoClass
	}
	return nil
}

// valueOr returns value or def if value is empty.
func valueOr(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

// classFile returns a path of the class file in dir.
func classFile(dir string, class string) string {
	return dir + "/" + class + ".php"
}

// moduleFile returns a path of the file in the module root.
func moduleFile(g *generator.Generator, module string, name string) (string, error) {
	modulePath, err := g.ModulePath(module)
	if err != nil {
		return "", err
	}
	return modulePath + "/" + name, nil
}

// serviceDefinition plans a service entry appended to the services file.
func serviceDefinition(g *generator.Generator, module string, name string,
	params generator.Params,
) (File, error) {
	target, err := moduleFile(g, module, name)
	if err != nil {
		return File{}, err
	}
	params["file_exists"] = util.IsRegularFile(target)
	return File{
		Template: servicesTemplate,
		Target:   target,
		Mode:     generator.WriteAppend,
		Params:   params,
	}, nil
}

// routeDefinition plans a route entry appended to the routing file.
func routeDefinition(g *generator.Generator, module string,
	params generator.Params,
) (File, error) {
	target, err := moduleFile(g, module, module+".routing.yml")
	if err != nil {
		return File{}, err
	}
	return File{
		Template: routingTemplate,
		Target:   target,
		Mode:     generator.WriteAppend,
		Params:   params,
	}, nil
}

// Controller is a page controller with a route.
type Controller struct {
	Module string
	Class  string
	// Method is the controller method. The default is "content".
	Method string
	// Route is the route path. Placeholders become method arguments.
	Route string
	// Title is the page title. The default is the class name.
	Title    string
	Services []generator.Service
	// Test enables generation of a controller test.
	Test bool
}

// Name implements Artifact interface.
func (c Controller) Name() string {
	return "controller"
}

// Plan implements Artifact interface.
func (c Controller) Plan(g *generator.Generator) ([]File, error) {
	if err := checkNames(c.Module, c.Class); err != nil {
		return nil, err
	}
	method := valueOr(c.Method, "content")
	route := valueOr(c.Route, "/"+c.Module+"/"+strcase.ToSnake(method))
	title := valueOr(c.Title, c.Class)

	controllerPath, err := g.ControllerPath(c.Module)
	if err != nil {
		return nil, err
	}
	files := []File{{
		Template: controllerTemplate,
		Target:   classFile(controllerPath, c.Class),
		Params: generator.Params{
			"module":      c.Module,
			"class_name":  c.Class,
			"method_name": method,
			"route":       route,
			"title":       title,
			"services":    c.Services,
		},
	}}

	routing, err := routeDefinition(g, c.Module, generator.Params{
		"route_name": c.Module + "." + strcase.ToSnake(c.Class) + "_" + strcase.ToSnake(method),
		"route":      route,
		"defaults": generator.Tags{
			{Key: "_controller", Value: fmt.Sprintf(`'\Drupal\%s\Controller\%s::%s'`,
				c.Module, c.Class, method)},
			{Key: "_title", Value: fmt.Sprintf("'%s'", title)},
		},
		"permission": "access content",
	})
	if err != nil {
		return nil, err
	}
	files = append(files, routing)

	if c.Test {
		testPath, err := g.TestPath(c.Module, "Controller")
		if err != nil {
			return nil, err
		}
		files = append(files, File{
			Template: testTemplate,
			Target:   classFile(testPath, c.Class+"Test"),
			Params: generator.Params{
				"module":     c.Module,
				"class_name": c.Class + "Test",
				"test_type":  "Controller",
			},
		})
	}
	return files, nil
}

// Form is a configuration form with a route.
type Form struct {
	Module string
	Class  string
	// FormID defaults to the snake cased class name.
	FormID string
	// Route defaults to /admin/config/<module>/<form id>.
	Route string
	Title string
	// ConfigName defaults to <module>.settings.
	ConfigName string
	Services   []generator.Service
}

// Name implements Artifact interface.
func (f Form) Name() string {
	return "form"
}

// Plan implements Artifact interface.
func (f Form) Plan(g *generator.Generator) ([]File, error) {
	if err := checkNames(f.Module, f.Class); err != nil {
		return nil, err
	}
	formID := valueOr(f.FormID, strcase.ToSnake(f.Class))
	route := valueOr(f.Route, "/admin/config/"+f.Module+"/"+formID)

	formPath, err := g.FormPath(f.Module)
	if err != nil {
		return nil, err
	}
	routing, err := routeDefinition(g, f.Module, generator.Params{
		"route_name": f.Module + "." + formID,
		"route":      route,
		"defaults": generator.Tags{
			{Key: "_form", Value: fmt.Sprintf(`'\Drupal\%s\Form\%s'`, f.Module, f.Class)},
			{Key: "_title", Value: fmt.Sprintf("'%s'", valueOr(f.Title, f.Class))},
		},
		"permission": "administer site configuration",
	})
	if err != nil {
		return nil, err
	}
	return []File{
		{
			Template: formTemplate,
			Target:   classFile(formPath, f.Class),
			Params: generator.Params{
				"module":      f.Module,
				"class_name":  f.Class,
				"form_id":     formID,
				"config_name": valueOr(f.ConfigName, f.Module+".settings"),
				"services":    f.Services,
			},
		},
		routing,
	}, nil
}

// Plugin is a block plugin.
type Plugin struct {
	Module string
	Class  string
	// PluginID defaults to the snake cased class name.
	PluginID string
	// Label defaults to the class name.
	Label    string
	Services []generator.Service
}

// Name implements Artifact interface.
func (p Plugin) Name() string {
	return "plugin"
}

// Plan implements Artifact interface.
func (p Plugin) Plan(g *generator.Generator) ([]File, error) {
	if err := checkNames(p.Module, p.Class); err != nil {
		return nil, err
	}
	pluginPath, err := g.PluginPath(p.Module, "Block")
	if err != nil {
		return nil, err
	}
	return []File{{
		Template: blockTemplate,
		Target:   classFile(pluginPath, p.Class),
		Params: generator.Params{
			"module":     p.Module,
			"class_name": p.Class,
			"plugin_id":  valueOr(p.PluginID, strcase.ToSnake(p.Class)),
			"label":      valueOr(p.Label, p.Class),
			"services":   p.Services,
		},
	}}, nil
}

// Command is a console command registered as a tagged service.
type Command struct {
	Module string
	Class  string
	// CommandName defaults to <module>:<snake cased class>.
	CommandName string
	Description string
}

// Name implements Artifact interface.
func (c Command) Name() string {
	return "command"
}

// Plan implements Artifact interface.
func (c Command) Plan(g *generator.Generator) ([]File, error) {
	if err := checkNames(c.Module, c.Class); err != nil {
		return nil, err
	}
	commandName := valueOr(c.CommandName, c.Module+":"+strcase.ToSnake(c.Class))
	commandKey := strings.ReplaceAll(commandName, ":", ".")

	commandPath, err := g.CommandPath(c.Module)
	if err != nil {
		return nil, err
	}
	translationsPath, err := g.TranslationsPath(c.Module)
	if err != nil {
		return nil, err
	}
	service, err := serviceDefinition(g, c.Module, "console.services.yml", generator.Params{
		"service_name": c.Module + "." + strcase.ToSnake(c.Class),
		"class":        fmt.Sprintf(`Drupal\%s\Command\%s`, c.Module, c.Class),
		"services":     []generator.Service{},
		"tags":         generator.Tags{{Key: "name", Value: "drupal.command"}},
	})
	if err != nil {
		return nil, err
	}
	return []File{
		{
			Template: commandTemplate,
			Target:   classFile(commandPath, c.Class),
			Params: generator.Params{
				"module":       c.Module,
				"class_name":   c.Class,
				"command_name": commandName,
				"command_key":  commandKey,
			},
		},
		service,
		{
			Template: commandMessageTemplate,
			Target:   translationsPath + "/console/en/" + commandKey + ".yml",
			Params: generator.Params{
				"description": valueOr(c.Description, "Console command "+commandName),
			},
		},
	}, nil
}

// Service is a container service class.
type Service struct {
	Module string
	Class  string
	// ServiceName defaults to <module>.<snake cased class>.
	ServiceName string
	Services    []generator.Service
	Tags        generator.Tags
}

// Name implements Artifact interface.
func (s Service) Name() string {
	return "service"
}

// Plan implements Artifact interface.
func (s Service) Plan(g *generator.Generator) ([]File, error) {
	if err := checkNames(s.Module, s.Class); err != nil {
		return nil, err
	}
	sourcePath, err := g.SourcePath(s.Module)
	if err != nil {
		return nil, err
	}
	definition, err := serviceDefinition(g, s.Module, s.Module+".services.yml", generator.Params{
		"service_name": valueOr(s.ServiceName, s.Module+"."+strcase.ToSnake(s.Class)),
		"class":        fmt.Sprintf(`Drupal\%s\%s`, s.Module, s.Class),
		"services":     s.Services,
		"tags":         s.Tags,
	})
	if err != nil {
		return nil, err
	}
	return []File{
		{
			Template: serviceTemplate,
			Target:   classFile(sourcePath, s.Class),
			Params: generator.Params{
				"module":     s.Module,
				"class_name": s.Class,
				"services":   s.Services,
			},
		},
		definition,
	}, nil
}

// Entity is a configuration entity type.
type Entity struct {
	Module string
	Class  string
	// EntityID defaults to the snake cased class name.
	EntityID string
	// Label defaults to the class name.
	Label string
}

// Name implements Artifact interface.
func (e Entity) Name() string {
	return "entity"
}

// Plan implements Artifact interface.
func (e Entity) Plan(g *generator.Generator) ([]File, error) {
	if err := checkNames(e.Module, e.Class); err != nil {
		return nil, err
	}
	entityPath, err := g.EntityPath(e.Module)
	if err != nil {
		return nil, err
	}
	return []File{{
		Template: entityTemplate,
		Target:   classFile(entityPath, e.Class),
		Params: generator.Params{
			"module":     e.Module,
			"class_name": e.Class,
			"entity_id":  valueOr(e.EntityID, strcase.ToSnake(e.Class)),
			"label":      valueOr(e.Label, e.Class),
		},
	}}, nil
}

// Authentication is an authentication provider registered as a tagged service.
type Authentication struct {
	Module string
	Class  string
	// ProviderID defaults to the snake cased class name.
	ProviderID string
	// Priority of the provider. The default is 100.
	Priority int
	Services []generator.Service
}

// Name implements Artifact interface.
func (a Authentication) Name() string {
	return "authentication"
}

// Plan implements Artifact interface.
func (a Authentication) Plan(g *generator.Generator) ([]File, error) {
	if err := checkNames(a.Module, a.Class); err != nil {
		return nil, err
	}
	providerID := valueOr(a.ProviderID, strcase.ToSnake(a.Class))
	priority := a.Priority
	if priority == 0 {
		priority = 100
	}

	providerPath, err := g.AuthenticationPath(a.Module, "Provider")
	if err != nil {
		return nil, err
	}
	definition, err := serviceDefinition(g, a.Module, a.Module+".services.yml", generator.Params{
		"service_name": a.Module + ".authentication." + providerID,
		"class": fmt.Sprintf(`Drupal\%s\Authentication\Provider\%s`,
			a.Module, a.Class),
		"services": a.Services,
		"tags": generator.Tags{
			{Key: "name", Value: "authentication_provider"},
			{Key: "provider_id", Value: providerID},
			{Key: "priority", Value: priority},
		},
	})
	if err != nil {
		return nil, err
	}
	return []File{
		{
			Template: providerTemplate,
			Target:   classFile(providerPath, a.Class),
			Params: generator.Params{
				"module":     a.Module,
				"class_name": a.Class,
				"services":   a.Services,
			},
		},
		definition,
	}, nil
}

// Test is a web test class.
type Test struct {
	Module string
	Class  string
	// Type is the test group dir. The default is "Functional".
	Type string
}

// Name implements Artifact interface.
func (t Test) Name() string {
	return "test"
}

// Plan implements Artifact interface.
func (t Test) Plan(g *generator.Generator) ([]File, error) {
	if err := checkNames(t.Module, t.Class); err != nil {
		return nil, err
	}
	class := t.Class
	if !strings.HasSuffix(class, "Test") {
		class += "Test"
	}
	testType := valueOr(t.Type, "Functional")
	testPath, err := g.TestPath(t.Module, testType)
	if err != nil {
		return nil, err
	}
	return []File{{
		Template: testTemplate,
		Target:   classFile(testPath, class),
		Params: generator.Params{
			"module":     t.Module,
			"class_name": class,
			"test_type":  testType,
		},
	}}, nil
}
