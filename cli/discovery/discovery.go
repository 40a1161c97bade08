// Package discovery finds modules installed under a site install root.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// ErrModuleNotFound is reported when no installed module has the requested name.
var ErrModuleNotFound = errors.New("module is not found")

const infoFileSuffix = ".info.yml"

// skippedDirs are never searched for modules.
var skippedDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"files":        true,
}

// Module describes an installed module.
type Module struct {
	// Name is the machine name of the module.
	Name string
	// Label is the human readable name from the info file.
	Label string
	// Path is the module directory relative to the install root.
	Path string
}

// info is the part of an info file used for discovery.
type info struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Scanner looks modules up by their info files.
type Scanner struct {
	// Root is the install root to scan.
	Root string
}

// NewScanner creates a scanner for the install root.
func NewScanner(root string) *Scanner {
	return &Scanner{Root: root}
}

// readInfo parses the info file of a module.
func readInfo(infoPath string) (info, error) {
	var moduleInfo info
	content, err := os.ReadFile(infoPath)
	if err != nil {
		return moduleInfo, err
	}
	if err = yaml.Unmarshal(content, &moduleInfo); err != nil {
		return moduleInfo, fmt.Errorf("failed to parse %s: %s", infoPath, err)
	}
	return moduleInfo, nil
}

// walk calls fn for every module found under the root. Walking stops when
// fn returns false.
func (scanner *Scanner) walk(fn func(module Module) bool) error {
	errStop := errors.New("stop")
	err := filepath.WalkDir(scanner.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			name := entry.Name()
			if path != scanner.Root && (skippedDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(entry.Name(), infoFileSuffix) {
			return nil
		}

		moduleInfo, err := readInfo(path)
		if err != nil {
			log.Warnf("Skipping %s: %s", path, err)
			return nil
		}
		if moduleInfo.Type != "module" {
			return nil
		}
		relPath, err := filepath.Rel(scanner.Root, filepath.Dir(path))
		if err != nil {
			return err
		}
		if !fn(Module{
			Name:  strings.TrimSuffix(entry.Name(), infoFileSuffix),
			Label: moduleInfo.Name,
			Path:  filepath.ToSlash(relPath),
		}) {
			return errStop
		}
		return nil
	})
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

// List returns all modules found under the root sorted by name.
func (scanner *Scanner) List() ([]Module, error) {
	modules := []Module{}
	err := scanner.walk(func(module Module) bool {
		modules = append(modules, module)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for modules: %w", scanner.Root, err)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Name == modules[j].Name {
			return modules[i].Path < modules[j].Path
		}
		return modules[i].Name < modules[j].Name
	})
	return modules, nil
}

// FindInstalledPath returns the directory of moduleName relative to the root.
func (scanner *Scanner) FindInstalledPath(moduleName string) (string, error) {
	var found *Module
	err := scanner.walk(func(module Module) bool {
		if module.Name == moduleName {
			found = &module
			return false
		}
		return true
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan %s for modules: %w", scanner.Root, err)
	}
	if found == nil {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, moduleName)
	}
	log.Debugf("Module %s is found in %s.", moduleName, found.Path)
	return found.Path, nil
}
