package summary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

var testFiles = []string{
	"modules/custom/demo/src/Controller/DemoController.php",
	"modules/custom/demo/demo.routing.yml",
	"modules/custom/demo/demo.routing.yml",
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	Print(&out, "/var/www", testFiles)
	assert.Equal(t, "Generated or updated files\n"+
		"Site path: /var/www\n"+
		"1 - modules/custom/demo/src/Controller/DemoController.php\n"+
		"2 - modules/custom/demo/demo.routing.yml\n"+
		"3 - modules/custom/demo/demo.routing.yml\n", out.String())

	out.Reset()
	Print(&out, "/var/www", nil)
	assert.Equal(t, "No files were generated.\n", out.String())
}

func TestPrintTree(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintTree(&out, "/var/www", append(testFiles, "/tmp/Other.php")))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "/var/www\n"))
	assert.Equal(t, 1, strings.Count(text, "demo.routing.yml"))
	assert.Equal(t, 1, strings.Count(text, "custom"))
	assert.Contains(t, text, "DemoController.php")
	assert.Contains(t, text, "/tmp/Other.php")

	out.Reset()
	require.NoError(t, PrintTree(&out, "/var/www", nil))
	assert.Empty(t, out.String())
}
