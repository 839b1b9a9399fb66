// Package frontmatter splits a content file into its YAML front-matter block
// and Markdown body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a front-matter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a parsed content file.
type Document struct {
	Fields Fields
	// Raw is the front-matter text without delimiters.
	Raw  []byte
	Body []byte
	// Had reports whether the file carried a front-matter block at all.
	Had bool
}

// Parse splits content and decodes its front matter. A file without a
// front-matter block yields empty Fields and the whole input as Body.
func Parse(content []byte) (Document, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Document{}, err
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter: %w", err)
	}
	return Document{Fields: fields, Raw: raw, Body: body, Had: had}, nil
}

// Split separates `---` delimited front matter from the body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	return content[start : start+idx+len(nl)], content[start+idx+len(closeSeq):], true, nil
}

// ParseYAML decodes raw front matter (without delimiters) into Fields.
func ParseYAML(frontmatter []byte) (Fields, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return Fields{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Fields holds decoded front-matter values.
type Fields map[string]any

// String returns the field as text. Scalars are formatted; YAML timestamps
// are rendered back as dates (or RFC 3339 when they carry a time of day).
// Absent, null and empty values report false.
func (f Fields) String(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			s = t.Format(time.DateOnly)
		} else {
			s = t.Format(time.RFC3339)
		}
	case map[string]any, []any:
		return "", false
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
