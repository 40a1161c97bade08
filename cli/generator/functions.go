package generator

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Service describes a container service injected into generated code.
type Service struct {
	// Short is a short class or interface name of the service.
	Short string `mapstructure:"short" yaml:"short"`
	// MachineName is the service name usable as a variable name.
	MachineName string `mapstructure:"machine_name" yaml:"machine_name"`
	// Name is the full service name.
	Name string `mapstructure:"name" yaml:"name"`
}

// Tag is a single key-value pair of a tag descriptor.
type Tag struct {
	Key   string
	Value any
}

// Tags is an ordered tag descriptor.
type Tags []Tag

// routeArgumentRe matches route placeholders.
var routeArgumentRe = regexp.MustCompile(`{(.*?)}`)

// formattingFuncs are registered into every template engine of a generator.
var formattingFuncs = map[string]any{
	"servicesAsParameters":       servicesAsParameters,
	"servicesAsParametersKeys":   servicesAsParametersKeys,
	"argumentsFromRoute":         argumentsFromRoute,
	"serviceClassInitialization": serviceClassInitialization,
	"serviceClassInjection":      serviceClassInjection,
	"tagsAsArray":                tagsAsArray,
}

// DecodeServices converts a template value to a list of services. Lists of
// maps are decoded by their "short", "machine_name" and "name" keys.
func DecodeServices(value any) ([]Service, error) {
	switch services := value.(type) {
	case nil:
		return nil, nil
	case []Service:
		return services, nil
	case []*Service:
		result := make([]Service, 0, len(services))
		for _, service := range services {
			if service != nil {
				result = append(result, *service)
			}
		}
		return result, nil
	}

	var services []Service
	if err := mapstructure.Decode(value, &services); err != nil {
		return nil, fmt.Errorf("unsupported services value of type %T: %s", value, err)
	}
	return services, nil
}

// mapServices applies format to each service.
func mapServices(value any, format func(service Service) string) ([]string, error) {
	services, err := DecodeServices(value)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(services))
	for _, service := range services {
		result = append(result, format(service))
	}
	return result, nil
}

// servicesAsParameters formats services as typed parameters declarations.
func servicesAsParameters(services any) ([]string, error) {
	return mapServices(services, func(service Service) string {
		return fmt.Sprintf("%s $%s", service.Short, service.MachineName)
	})
}

// servicesAsParametersKeys formats services as quoted service references.
func servicesAsParametersKeys(services any) ([]string, error) {
	return mapServices(services, func(service Service) string {
		return fmt.Sprintf(`"@%s"`, service.Name)
	})
}

// argumentsFromRoute returns variables for every route placeholder.
func argumentsFromRoute(route string) []string {
	matches := routeArgumentRe.FindAllStringSubmatch(route, -1)
	result := make([]string, 0, len(matches))
	for _, match := range matches {
		result = append(result, "$"+match[1])
	}
	return result
}

// serviceClassInitialization formats constructor assignments of services.
func serviceClassInitialization(services any) (string, error) {
	lines, err := mapServices(services, func(service Service) string {
		return fmt.Sprintf("    $this->%s = $%s;", service.MachineName, service.MachineName)
	})
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// serviceClassInjection formats container lookups of services.
func serviceClassInjection(services any) (string, error) {
	lines, err := mapServices(services, func(service Service) string {
		return fmt.Sprintf("      $container->get('%s')", service.Name)
	})
	if err != nil {
		return "", err
	}
	return strings.Join(lines, ",\n"), nil
}

// tagsAsArray formats tags as "key: value" pairs. Ordered tags keep their
// order, maps are formatted in keys order.
func tagsAsArray(tags any) ([]string, error) {
	switch tags := tags.(type) {
	case nil:
		return []string{}, nil
	case Tags:
		return formatTags(tags), nil
	case []Tag:
		return formatTags(tags), nil
	}

	value := reflect.ValueOf(tags)
	if value.Kind() != reflect.Map {
		return nil, fmt.Errorf("unsupported tags value of type %T", tags)
	}
	ordered := make(Tags, 0, value.Len())
	iter := value.MapRange()
	for iter.Next() {
		ordered = append(ordered, Tag{
			Key:   fmt.Sprint(iter.Key().Interface()),
			Value: iter.Value().Interface(),
		})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Key < ordered[j].Key
	})
	return formatTags(ordered), nil
}

func formatTags(tags []Tag) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		value := tag.Value
		if value == nil {
			value = ""
		}
		result = append(result, fmt.Sprintf("%s: %v", tag.Key, value))
	}
	return result
}
