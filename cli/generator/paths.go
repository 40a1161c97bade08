package generator

import (
	"path/filepath"
)

// ModuleLocator finds where a module is installed.
type ModuleLocator interface {
	// FindInstalledPath returns the module directory. A relative path is
	// treated as relative to the install root.
	FindInstalledPath(moduleName string) (string, error)
}

// PathResolver computes destination paths of generated artifacts inside
// module directories. Module roots are looked up once per module name.
type PathResolver struct {
	// root is the install root of the site.
	root string
	// locator is used to look up module directories.
	locator ModuleLocator
	// modules caches resolved module roots by module name.
	modules map[string]string
}

// NewPathResolver creates a resolver for modules installed under root.
func NewPathResolver(root string, locator ModuleLocator) *PathResolver {
	return &PathResolver{
		root:    root,
		locator: locator,
		modules: make(map[string]string),
	}
}

// Root returns the install root.
func (resolver *PathResolver) Root() string {
	return resolver.root
}

// ModulePath returns the absolute root directory of moduleName.
// Locator errors are returned as is.
func (resolver *PathResolver) ModulePath(moduleName string) (string, error) {
	if modulePath, found := resolver.modules[moduleName]; found {
		return modulePath, nil
	}

	installedPath, err := resolver.locator.FindInstalledPath(moduleName)
	if err != nil {
		return "", err
	}
	modulePath := installedPath
	if !filepath.IsAbs(installedPath) {
		modulePath = resolver.root + "/" + installedPath
	}
	resolver.modules[moduleName] = modulePath
	return modulePath, nil
}

func (resolver *PathResolver) childPath(moduleName string, suffix string) (string, error) {
	modulePath, err := resolver.ModulePath(moduleName)
	if err != nil {
		return "", err
	}
	return modulePath + suffix, nil
}

// ControllerPath returns the controllers directory of the module.
func (resolver *PathResolver) ControllerPath(moduleName string) (string, error) {
	return resolver.childPath(moduleName, "/src/Controller")
}

// FormPath returns the forms directory of the module.
func (resolver *PathResolver) FormPath(moduleName string) (string, error) {
	return resolver.childPath(moduleName, "/src/Form")
}

// PluginPath returns the directory of pluginType plugins of the module.
func (resolver *PathResolver) PluginPath(moduleName string, pluginType string) (string, error) {
	return resolver.childPath(moduleName, "/src/Plugin/"+pluginType)
}

// AuthenticationPath returns the directory of authType authentication classes.
func (resolver *PathResolver) AuthenticationPath(moduleName string,
	authType string,
) (string, error) {
	return resolver.childPath(moduleName, "/src/Authentication/"+authType)
}

// CommandPath returns the console commands directory of the module.
func (resolver *PathResolver) CommandPath(moduleName string) (string, error) {
	return resolver.childPath(moduleName, "/src/Command")
}

// EntityPath returns the entities directory of the module.
func (resolver *PathResolver) EntityPath(moduleName string) (string, error) {
	return resolver.childPath(moduleName, "/src/Entity")
}

// SourcePath returns the source root of the module.
func (resolver *PathResolver) SourcePath(moduleName string) (string, error) {
	return resolver.childPath(moduleName, "/src")
}

// TemplatePath returns the theme templates directory of the module.
func (resolver *PathResolver) TemplatePath(moduleName string) (string, error) {
	return resolver.childPath(moduleName, "/templates")
}

// TranslationsPath returns the translations directory of the module.
func (resolver *PathResolver) TranslationsPath(moduleName string) (string, error) {
	return resolver.childPath(moduleName, "/config/translations")
}

// TestPath returns the directory of testType tests of the module.
func (resolver *PathResolver) TestPath(moduleName string, testType string) (string, error) {
	return resolver.childPath(moduleName, "/Tests/"+testType)
}
