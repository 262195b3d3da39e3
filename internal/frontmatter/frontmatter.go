package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Block is a split document.
type Block struct {
	// Raw is the YAML between the delimiters (without them).
	Raw []byte
	// Body is everything after the closing delimiter.
	Body []byte
	// Had reports whether the document opened with a front matter delimiter.
	Had bool
	// BodyLine is the 1-based line of the document where Body starts.
	BodyLine int
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Split separates YAML front matter (`---` delimited) from the Markdown body.
//
// If the document does not start with a delimiter, Had is false and Body is
// the full input.
func Split(content []byte) (Block, error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Block{Body: content, BodyLine: 1}, nil
	}

	start := len(open)
	closing := []byte("---" + nl)
	if bytes.HasPrefix(content[start:], closing) {
		return Block{Raw: []byte{}, Body: content[start+len(closing):], Had: true, BodyLine: 3}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		if bytes.HasSuffix(content[start:], []byte(nl+"---")) {
			raw := content[start : len(content)-len("---")]
			return Block{Raw: raw, Body: []byte{}, Had: true, BodyLine: lineOf(content, len(content)) + 1}, nil
		}
		return Block{}, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return Block{
		Raw:      content[start:end],
		Body:     content[bodyStart:],
		Had:      true,
		BodyLine: lineOf(content, bodyStart),
	}, nil
}

// ParseYAML parses raw YAML front matter (without delimiters) into a map.
func ParseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// String returns fields[key] when it is a non-empty string.
func String(fields map[string]any, key string) (string, bool) {
	s, ok := fields[key].(string)
	return s, ok && s != ""
}

// lineOf returns the 1-based line number of byte offset off.
func lineOf(content []byte, off int) int {
	return bytes.Count(content[:off], []byte("\n")) + 1
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
