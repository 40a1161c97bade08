package builtin_templates

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesAreEmbedded(t *testing.T) {
	skeletons := Skeletons()
	for _, name := range Names {
		buf, err := fs.ReadFile(skeletons, name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, buf, name)
	}
}

func TestAllEmbeddedAreNamed(t *testing.T) {
	var found []string
	require.NoError(t, fs.WalkDir(Skeletons(), ".",
		func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() {
				found = append(found, path)
			}
			return nil
		}))
	assert.ElementsMatch(t, Names[:], found)
}
