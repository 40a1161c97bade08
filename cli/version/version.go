// Package version reports the modgen version set at build time.
package version

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	goVersion "github.com/hashicorp/go-version"
)

const (
	unknownVersion  = "<unknown>"
	cliVersionTitle = "modgen"
)

// Get the value of this variables at build time.
// See magefile for more details.
var (
	gitTag       string
	gitCommit    string
	versionLabel string
)

// normalize returns tag as dot-separated version segments. Tags that are not
// versions are returned as is.
func normalize(tag string, label string) string {
	if tag == "" {
		return unknownVersion
	}

	version := tag
	if normalizedVersion, err := goVersion.NewVersion(tag); err == nil {
		segments := make([]string, 0, len(normalizedVersion.Segments()))
		for _, num := range normalizedVersion.Segments() {
			segments = append(segments, strconv.Itoa(num))
		}
		version = strings.Join(segments, ".")
	}
	if label != "" {
		version = fmt.Sprintf("%s/%s", version, label)
	}
	return version
}

// GetVersion return string with modgen version info.
func GetVersion(showShort bool, needCommit bool) string {
	version := normalize(gitTag, versionLabel)
	if needCommit {
		return fmt.Sprintf("%s.%s", version, gitCommit)
	}
	if showShort {
		return version
	}

	return fmt.Sprintf(
		"%s version %s, %s/%s. commit: %s",
		cliVersionTitle, version, runtime.GOOS, runtime.GOARCH, gitCommit,
	)
}
