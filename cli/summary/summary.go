// Package summary prints the files written by a generator.
package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/ddddddO/gtree"
	"github.com/fatih/color"
)

var (
	printTitle = color.New(color.FgGreen, color.Bold).SprintFunc()
	printIndex = color.New(color.FgYellow).SprintFunc()
)

// Print writes a numbered list of files generated under the site root.
func Print(w io.Writer, root string, files []string) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files were generated.")
		return
	}
	fmt.Fprintln(w, printTitle("Generated or updated files"))
	fmt.Fprintf(w, "Site path: %s\n", root)
	for i, file := range files {
		fmt.Fprintf(w, "%s - %s\n", printIndex(i+1), file)
	}
}

// PrintTree writes files as a directory tree under the site root. Files
// outside of the root are shown as children of the root with their full path.
func PrintTree(w io.Writer, root string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	tree := gtree.NewRoot(root)
	nodes := map[string]*gtree.Node{}
	for _, file := range files {
		if strings.HasPrefix(file, "/") {
			if _, found := nodes[file]; !found {
				nodes[file] = tree.Add(file)
			}
			continue
		}

		parent := tree
		prefix := ""
		for _, part := range strings.Split(file, "/") {
			if part == "" {
				continue
			}
			prefix += "/" + part
			node, found := nodes[prefix]
			if !found {
				node = parent.Add(part)
				nodes[prefix] = node
			}
			parent = node
		}
	}
	return gtree.OutputFromRoot(w, tree)
}
