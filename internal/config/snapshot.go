package config

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Snapshot hashes every build-affecting field. Worker count, notification,
// metrics and logging settings are excluded because they never change output.
// Slice fields whose order carries no meaning are sorted first; moniker order
// and moniker_range order are hashed as declared.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) {
		h.Write([]byte(strings.Join(parts, "=")))
		h.Write([]byte{0})
	}

	w("name", c.Name)
	w("files", sortedJoin(c.Files))
	w("exclude", sortedJoin(c.Exclude))
	for i, m := range c.Monikers {
		w("monikers."+strconv.Itoa(i), m.Name, m.Product, strconv.FormatBool(m.IsDefault))
	}
	if c.MonikerDefinition != "" {
		w("moniker_definition", c.MonikerDefinition)
		// The file content matters, not just its path.
		if data, err := os.ReadFile(c.Resolve(c.MonikerDefinition)); err == nil {
			sum := sha256.Sum256(data)
			w("moniker_definition.sha256", hex.EncodeToString(sum[:]))
		}
	}
	for i, r := range c.MonikerRange {
		w("moniker_range."+strconv.Itoa(i), r.Pattern, r.Range)
	}
	redirects := make([]string, 0, len(c.Redirections))
	for src, dst := range c.Redirections {
		redirects = append(redirects, src+"->"+dst)
	}
	w("redirections", sortedJoin(redirects))
	w("output.type", string(c.Output.Type))
	w("templates", c.Templates)
	w("schemas", c.Schemas)
	return hex.EncodeToString(h.Sum(nil))
}

func sortedJoin(values []string) string {
	cp := append([]string{}, values...)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}
