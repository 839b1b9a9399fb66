// Package relpath computes the relative prefix that lets an emitted page
// reference site-root assets regardless of where the page is written.
package relpath

import (
	"fmt"
	"strings"
)

// Resolve returns "." for depth 0 and "../" repeated depth times (without a
// trailing slash) otherwise. Depth is the number of directories between the
// page's directory and the site root; a negative depth panics.
func Resolve(depth int) string {
	if depth < 0 {
		panic(fmt.Sprintf("relpath: negative depth %d", depth))
	}
	if depth == 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", depth), "/")
}

// Depth reports the depth of an output file given its path relative to the
// site root, e.g. "blog/hello/index.html" has depth 2.
func Depth(relFile string) int {
	rel := strings.Trim(strings.ReplaceAll(relFile, "\\", "/"), "/")
	if rel == "" {
		return 0
	}
	return strings.Count(rel, "/")
}
