package builtin_templates

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templatesFs embed.FS

// Names contains built-in skeleton template names.
var Names = [...]string{
	"module/src/Controller/controller.php.tmpl",
	"module/src/Form/form-config.php.tmpl",
	"module/src/Plugin/Block/block.php.tmpl",
	"module/src/Command/command.php.tmpl",
	"module/src/Entity/entity.php.tmpl",
	"module/src/Authentication/Provider/provider.php.tmpl",
	"module/src/service.php.tmpl",
	"module/Tests/test.php.tmpl",
	"module/translations/command.yml.tmpl",
	"module/routing.yml.tmpl",
	"module/services.yml.tmpl",
}

// Skeletons returns the built-in skeleton dir.
func Skeletons() fs.FS {
	skeletons, err := fs.Sub(templatesFs, "templates")
	if err != nil {
		panic(err)
	}
	return skeletons
}
