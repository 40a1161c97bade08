package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/otiai10/copy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copySite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, copy.Copy("testdata/site", root))
	return root
}

func TestList(t *testing.T) {
	root := copySite(t)
	handler := memory.New()
	log.SetHandler(handler)

	modules, err := NewScanner(root).List()
	require.NoError(t, err)
	assert.Equal(t, []Module{
		{Name: "demo", Label: "Demo", Path: "modules/custom/demo"},
		{Name: "node", Label: "Node", Path: "core/modules/node"},
	}, modules)

	require.Len(t, handler.Entries, 1)
	assert.Equal(t, log.WarnLevel, handler.Entries[0].Level)
	assert.Contains(t, handler.Entries[0].Message, "broken.info.yml")
}

func TestListEmpty(t *testing.T) {
	modules, err := NewScanner(t.TempDir()).List()
	require.NoError(t, err)
	assert.Empty(t, modules)

	_, err = NewScanner(filepath.Join(t.TempDir(), "missing")).List()
	require.Error(t, err)
}

func TestFindInstalledPath(t *testing.T) {
	root := copySite(t)
	scanner := NewScanner(root)

	modulePath, err := scanner.FindInstalledPath("demo")
	require.NoError(t, err)
	assert.Equal(t, "modules/custom/demo", modulePath)

	modulePath, err = scanner.FindInstalledPath("node")
	require.NoError(t, err)
	assert.Equal(t, "core/modules/node", modulePath)

	// Themes and vendor packages are not modules.
	for _, name := range []string{"bartik", "skipped", "missing"} {
		_, err = scanner.FindInstalledPath(name)
		require.ErrorIs(t, err, ErrModuleNotFound)
	}
}

func TestFindInstalledPathSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	hiddenDir := filepath.Join(root, ".git", "hidden")
	require.NoError(t, os.MkdirAll(hiddenDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(hiddenDir, "hidden.info.yml"),
		[]byte("name: Hidden\ntype: module\n"), 0o644))

	_, err := NewScanner(root).FindInstalledPath("hidden")
	require.ErrorIs(t, err, ErrModuleNotFound)
}
