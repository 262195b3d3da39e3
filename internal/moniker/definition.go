package moniker

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Moniker is one known version identifier and its metadata.
type Moniker struct {
	Name      string `yaml:"name" json:"name"`
	Product   string `yaml:"product,omitempty" json:"product,omitempty"`
	IsDefault bool   `yaml:"is_default,omitempty" json:"is_default,omitempty"`
}

// Definition is the ordered, immutable universe of monikers for a docset.
// Safe for concurrent reads.
type Definition struct {
	monikers []Moniker
	index    map[string]int
	version  string
}

// NewDefinition validates monikers and freezes their declared order.
func NewDefinition(monikers []Moniker) (*Definition, error) {
	d := &Definition{
		monikers: make([]Moniker, len(monikers)),
		index:    make(map[string]int, len(monikers)),
	}
	copy(d.monikers, monikers)

	h := sha256.New()
	for i, m := range d.monikers {
		if !namePattern.MatchString(m.Name) {
			return nil, ferrors.ConfigError("invalid moniker name").
				WithContext("moniker", m.Name).WithContext("position", i).Build()
		}
		key := strings.ToLower(m.Name)
		if prev, dup := d.index[key]; dup {
			return nil, ferrors.ConfigError("duplicate moniker name").
				WithContext("moniker", m.Name).WithContext("first", d.monikers[prev].Name).Build()
		}
		d.index[key] = i
		h.Write([]byte(m.Name + "\x00" + m.Product + "\x00"))
	}
	d.version = hex.EncodeToString(h.Sum(nil))
	return d, nil
}

// LoadDefinition reads a moniker definition file. YAML and JSON are both accepted,
// either as a bare list or as an object with a "monikers" list.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read moniker definition").
			Fatal().WithContext("path", path).Build()
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse moniker definition").
			Fatal().WithContext("path", path).Build()
	}

	var monikers []Moniker
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&monikers)
	case yaml.MappingNode:
		var wrapper struct {
			Monikers []Moniker `yaml:"monikers"`
		}
		err = root.Decode(&wrapper)
		monikers = wrapper.Monikers
	default:
		return nil, ferrors.ConfigError("moniker definition must be a list or an object").
			WithContext("path", path).Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode moniker definition").
			Fatal().WithContext("path", path).Build()
	}
	return NewDefinition(monikers)
}

// Len returns the size of the universe.
func (d *Definition) Len() int { return len(d.monikers) }

// Version identifies the universe content; it changes when names, order or products change.
func (d *Definition) Version() string { return d.version }

// Moniker returns the moniker at position i.
func (d *Definition) Moniker(i int) Moniker { return d.monikers[i] }

// Names returns every moniker name in canonical order.
func (d *Definition) Names() []string {
	names := make([]string, len(d.monikers))
	for i, m := range d.monikers {
		names[i] = m.Name
	}
	return names
}

// Lookup finds a moniker position by case-insensitive name.
func (d *Definition) Lookup(name string) (int, bool) {
	i, ok := d.index[strings.ToLower(name)]
	return i, ok
}

// Default returns the first moniker flagged as default.
func (d *Definition) Default() (Moniker, bool) {
	for _, m := range d.monikers {
		if m.IsDefault {
			return m, true
		}
	}
	return Moniker{}, false
}

// Canonicalize maps names to their declared spelling, drops unknown and duplicate
// names, and returns them in universe order.
func (d *Definition) Canonicalize(names []string) []string {
	s := newSet(d.Len())
	for _, n := range names {
		if i, ok := d.Lookup(n); ok {
			s[i] = true
		}
	}
	return s.names(d)
}
