package moniker

import (
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/glob"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
)

// RuleSpec is one moniker_range entry in configuration order.
type RuleSpec struct {
	Pattern string
	Range   string
}

// Rule is a compiled file-level moniker rule.
type Rule struct {
	Pattern  string
	Range    string
	Monikers []string
	match    glob.Matcher
}

// Provider resolves file-level and zone-level monikers.
//
// Rules are stored in priority order: the rule declared last in configuration
// comes first, and only the first matching rule applies. Monikers from several
// matching rules are never merged.
type Provider struct {
	parser *RangeParser
	rules  []Rule
	logger *slog.Logger
}

// NewProvider compiles specs (in configuration order). A malformed glob or an
// invalid configured range is a fatal config error.
func NewProvider(parser *RangeParser, specs []RuleSpec, opts ...glob.Option) (*Provider, error) {
	p := &Provider{parser: parser, logger: slog.Default(), rules: make([]Rule, 0, len(specs))}
	for i := len(specs) - 1; i >= 0; i-- {
		spec := specs[i]
		match, err := glob.Compile(spec.Pattern, opts...)
		if err != nil {
			return nil, err
		}
		monikers, err := parser.Parse(spec.Range)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid moniker_range in config").
				Fatal().
				WithContext("pattern", spec.Pattern).
				WithContext("range", spec.Range).
				Build()
		}
		p.rules = append(p.rules, Rule{Pattern: spec.Pattern, Range: spec.Range, Monikers: monikers, match: match})
	}
	return p, nil
}

// WithLogger sets a custom logger.
func (p *Provider) WithLogger(logger *slog.Logger) *Provider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Parser returns the range parser backing this provider.
func (p *Provider) Parser() *RangeParser { return p.parser }

// Rules returns the compiled rules in priority order.
func (p *Provider) Rules() []Rule { return slices.Clone(p.rules) }

// GetFileMonikers returns the monikers of the highest-priority rule matching
// path, or an empty list for unversioned files.
func (p *Provider) GetFileMonikers(path string) []string {
	for _, rule := range p.rules {
		if rule.match(path) {
			return slices.Clone(rule.Monikers)
		}
	}
	return []string{}
}

// GetZoneMonikers narrows fileLevel by a zone range declared at src.
//
// fileLevel may use any spelling the definition accepts; the result is
// canonical. A zone in a file without file-level monikers yields
// MonikerConfigMissing.
// A zone disjoint from the file yields NoMonikersIntersection. Range errors
// become error diagnostics. In every failing case the zone applies to no
// moniker and the build of the file continues.
func (p *Provider) GetZoneMonikers(src diagnostics.Source, rangeString string, fileLevel []string) ([]string, []diagnostics.Diagnostic) {
	if len(fileLevel) == 0 {
		return []string{}, []diagnostics.Diagnostic{diagnostics.MonikerConfigMissing(src)}
	}

	zone, err := p.parser.Parse(rangeString)
	if err != nil {
		p.logger.Debug("Zone moniker range rejected",
			logfields.File(src.File), logfields.MonikerRange(rangeString), logfields.Error(err))
		return []string{}, []diagnostics.Diagnostic{DiagnosticFor(err, rangeString, src)}
	}

	monikers := Intersect(zone, p.parser.Definition().Canonicalize(fileLevel))
	if len(monikers) == 0 {
		return []string{}, []diagnostics.Diagnostic{
			diagnostics.NoMonikersIntersection(src, rangeString, zone, fileLevel),
		}
	}
	return monikers, nil
}
