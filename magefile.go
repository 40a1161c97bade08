//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	goPackageName = "github.com/modgen/modgen/cli"

	asmflags = "all=-trimpath=${PWD}"
	gcflags  = "all=-trimpath=${PWD}"

	packagePath = "./cli"
)

var (
	ldflags = []string{
		"-X ${PACKAGE}/version.gitTag=${GIT_TAG}",
		"-X ${PACKAGE}/version.gitCommit=${GIT_COMMIT}",
		"-X ${PACKAGE}/version.versionLabel=${VERSION_LABEL}",
	}
	goExecutableName     = "go"
	modgenExecutableName = "modgen"

	Aliases = map[string]any{
		"build": Build.Release,
		"unit":  Unit.Default,
	}
)

func init() {
	if specifiedGoExe := os.Getenv("GOEXE"); specifiedGoExe != "" {
		goExecutableName = specifiedGoExe
	}
}

type optsUpdater func([]string) []string

// appendFlags appends flags passed in args.
func appendFlags(flags ...string) optsUpdater {
	return func(args []string) []string {
		return append(args, flags...)
	}
}

// appendLdFlags appends linker flags.
func appendLdFlags(flags ...string) optsUpdater {
	return func(args []string) []string {
		buildLdflags := append(append([]string{}, ldflags...), flags...)
		return append(args, "-ldflags", strings.Join(buildLdflags, " "))
	}
}

// buildModgen builds modgen executable.
func buildModgen(argUpdaters ...optsUpdater) error {
	args := []string{"build", "-o", modgenExecutableName}
	for _, updateArguments := range argUpdaters {
		args = updateArguments(args)
	}
	args = append(args,
		"-asmflags", asmflags,
		"-gcflags", gcflags,
		packagePath)
	if err := sh.RunWith(getBuildEnvironment(), goExecutableName, args...); err != nil {
		return fmt.Errorf("failed to build modgen executable: %s", err)
	}
	return nil
}

type Build mg.Namespace

// Building release modgen executable without debug info.
func (Build) Release() error {
	fmt.Println("Building release modgen...")

	return buildModgen(appendLdFlags("-s", "-w"))
}

// Building debug modgen executable.
func (Build) Debug() error {
	fmt.Println("Building debug modgen...")

	return buildModgen(appendLdFlags())
}

// Building modgen executable with coverage.
func (Build) Coverage() error {
	fmt.Println("Building release modgen with coverage...")

	return buildModgen(appendFlags("-cover"), appendLdFlags("-s", "-w"))
}

// Run golang linters.
func Lint() error {
	fmt.Println("Running golangci-lint...")

	return sh.RunV("golangci-lint", "run")
}

type Unit mg.Namespace

func runUnitTests(flags []string) error {
	args := []string{"test"}
	if mg.Verbose() {
		args = append(args, "-v")
	}
	args = append(args, "./...")
	args = append(args, flags...)
	return sh.RunV(goExecutableName, args...)
}

// Run unit tests.
func (Unit) Default() error {
	fmt.Println("Running unit tests...")

	return runUnitTests([]string{})
}

// Run unit tests with coverage.
func (Unit) Coverage() error {
	fmt.Println("Running unit tests with coverage...")

	return runUnitTests([]string{"-coverprofile", "coverage.out"})
}

// Clean removes build artifacts.
func Clean() {
	sh.Rm(modgenExecutableName)
	sh.Rm("coverage.out")
}

// getBuildEnvironment return map with build environment variables.
func getBuildEnvironment() map[string]string {
	var gitTag string
	var gitCommit string

	currentDir, err := os.Getwd()
	if err != nil {
		log.Warnf("Failed to get current directory: %s", err)
	}

	if _, err := exec.LookPath("git"); err == nil {
		gitTag, _ = sh.Output("git", "describe", "--tags")
		gitCommit, _ = sh.Output("git", "rev-parse", "--short", "HEAD")
	}

	return map[string]string{
		"PACKAGE":       goPackageName,
		"GIT_TAG":       gitTag,
		"GIT_COMMIT":    gitCommit,
		"VERSION_LABEL": os.Getenv("VERSION_LABEL"),
		"PWD":           currentDir,
		"CGO_ENABLED":   "0",
	}
}
