package engines

import (
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"
)

// commonTemplateFuncs is a set of helpers registered into every engine.
var commonTemplateFuncs template.FuncMap

// join concatenates items separated by sep.
func join(items []string, sep string) string {
	return strings.Join(items, sep)
}

func init() {
	commonTemplateFuncs = template.FuncMap{
		"join":           join,
		"lower":          strings.ToLower,
		"upper":          strings.ToUpper,
		"camelCase":      strcase.ToCamel,
		"lowerCamelCase": strcase.ToLowerCamel,
		"snakeCase":      strcase.ToSnake,
	}
}
