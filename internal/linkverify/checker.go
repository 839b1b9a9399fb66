package linkverify

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Broken is a local link whose target does not exist in the output tree.
type Broken struct {
	Page string // page path relative to the output root, slash separated
	URL  string
	Tag  string
}

// Checker verifies local links of every HTML file below an output root.
type Checker struct {
	// IgnorePrefixes lists target paths (relative to the output root) that are
	// never reported, such as assets produced outside the build.
	IgnorePrefixes []string
}

// Check walks root and returns the broken local links, sorted by page.
func (c Checker) Check(ctx context.Context, root string) ([]Broken, error) {
	var broken []Broken
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		pageBroken, err := c.checkPage(root, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		broken = append(broken, pageBroken...)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to scan output for links").
			WithSeverity(errors.SeverityError).
			WithContext("path", root).
			Build()
	}
	sort.SliceStable(broken, func(i, j int) bool { return broken[i].Page < broken[j].Page })
	return broken, nil
}

func (c Checker) checkPage(root, page string) ([]Broken, error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(page)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	links, err := ExtractLinks(f)
	if err != nil {
		return nil, err
	}

	var out []Broken
	for _, l := range links {
		if !IsLocal(l.URL) {
			continue
		}
		target, ok := resolve(page, l.URL)
		if !ok {
			// Escapes the output root.
			out = append(out, Broken{Page: page, URL: l.URL, Tag: l.Tag})
			continue
		}
		if c.ignored(target) || exists(root, target) {
			continue
		}
		out = append(out, Broken{Page: page, URL: l.URL, Tag: l.Tag})
	}
	return out, nil
}

func (c Checker) ignored(target string) bool {
	for _, p := range c.IgnorePrefixes {
		if p != "" && strings.HasPrefix(target, strings.TrimPrefix(p, "/")) {
			return true
		}
	}
	return false
}

// resolve maps a link found on page to a slash separated path relative to
// the output root.
func resolve(page, link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	p := u.Path
	if strings.HasPrefix(p, "/") {
		return strings.TrimPrefix(path.Clean(p), "/"), true
	}
	p = path.Join(path.Dir(page), p)
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}

func exists(root, target string) bool {
	full := filepath.Join(root, filepath.FromSlash(target))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = os.Stat(filepath.Join(full, "index.html"))
	return err == nil
}
