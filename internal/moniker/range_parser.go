package moniker

import (
	"errors"
	"sync"

	"git.home.luguber.info/inful/docsetbuild/internal/foundation"
)

// CacheObserver is notified of parse cache lookups.
type CacheObserver interface {
	ObserveRangeCache(hit bool)
}

type noopObserver struct{}

func (noopObserver) ObserveRangeCache(bool) {}

type parseResult = foundation.Result[Expression, *RangeError]

// RangeParser parses and evaluates range strings against one Definition.
// Parse outcomes, failures included, are memoized by exact string. It is
// safe for concurrent use; only cache insertion takes the write lock.
type RangeParser struct {
	def      *Definition
	mu       sync.RWMutex
	parsed   map[string]parseResult
	observer CacheObserver
}

// NewRangeParser creates a parser bound to def.
func NewRangeParser(def *Definition) *RangeParser {
	return &RangeParser{
		def:      def,
		parsed:   make(map[string]parseResult),
		observer: noopObserver{},
	}
}

// WithObserver installs a cache observer. Call before concurrent use.
func (p *RangeParser) WithObserver(o CacheObserver) *RangeParser {
	if o == nil {
		o = noopObserver{}
	}
	p.observer = o
	return p
}

// Definition returns the universe this parser evaluates against.
func (p *RangeParser) Definition() *Definition { return p.def }

// ParseExpression returns the memoized expression tree for rangeString.
func (p *RangeParser) ParseExpression(rangeString string) (Expression, error) {
	p.mu.RLock()
	res, ok := p.parsed[rangeString]
	p.mu.RUnlock()
	p.observer.ObserveRangeCache(ok)

	if !ok {
		res = foundation.Of(parse(rangeString))
		p.mu.Lock()
		if existing, raced := p.parsed[rangeString]; raced {
			res = existing
		} else {
			p.parsed[rangeString] = res
		}
		p.mu.Unlock()
	}

	expr, rerr := res.Get()
	if rerr != nil {
		return nil, rerr
	}
	return expr, nil
}

// Parse parses and evaluates rangeString, returning monikers in canonical order.
func (p *RangeParser) Parse(rangeString string) ([]string, error) {
	expr, err := p.ParseExpression(rangeString)
	if err != nil {
		return nil, err
	}
	names, err := Evaluate(expr, p.def)
	if err != nil {
		var rerr *RangeError
		if errors.As(err, &rerr) {
			cp := *rerr
			cp.Range = rangeString
			return nil, &cp
		}
		return nil, err
	}
	return names, nil
}

// CacheSize returns the number of memoized range strings.
func (p *RangeParser) CacheSize() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.parsed)
}
