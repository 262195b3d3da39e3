// Package incremental decides which files of a docset need rebuilding.
package incremental

import (
	"bytes"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docsetbuild/internal/frontmatter"
)

// Fingerprint computes the content fingerprint of a file.
//
// Markdown front matter is hashed separately from the body so that a
// fingerprint field written back into the front matter does not change the
// result. Content without front matter hashes as a body only.
func Fingerprint(content []byte) string {
	block, err := frontmatter.Split(content)
	if err != nil || !block.Had {
		return mdfp.CalculateFingerprintFromParts("", string(content))
	}
	return mdfp.CalculateFingerprintFromParts(canonicalFrontMatter(block.Raw), string(block.Body))
}

func canonicalFrontMatter(raw []byte) string {
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	lines := strings.Split(string(raw), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, mdfp.FingerprintField+":") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSuffix(strings.Join(kept, "\n"), "\n")
}
