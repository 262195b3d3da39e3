package diagnostics

import (
	"sort"
	"sync"
)

// Store accumulates diagnostics per file. It is owned by a build session and
// injected into every component that reports. Clearing one file never
// touches diagnostics attributed to any other file.
type Store struct {
	mu     sync.RWMutex
	byFile map[string][]Diagnostic
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byFile: make(map[string][]Diagnostic)}
}

// Add records d under d.Source.File.
func (s *Store) Add(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byFile[d.Source.File] = append(s.byFile[d.Source.File], d)
}

// AddAll records every diagnostic in ds.
func (s *Store) AddAll(ds []Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range ds {
		s.byFile[d.Source.File] = append(s.byFile[d.Source.File], d)
	}
}

// ClearFile removes every diagnostic attributed to file.
func (s *Store) ClearFile(file string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byFile, file)
}

// ReplaceFile atomically clears file and records ds in its place.
func (s *Store) ReplaceFile(file string, ds []Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ds) == 0 {
		delete(s.byFile, file)
		return
	}
	cp := make([]Diagnostic, len(ds))
	copy(cp, ds)
	s.byFile[file] = cp
}

// FileDiagnostics returns a copy of the diagnostics attributed to file.
func (s *Store) FileDiagnostics(file string) []Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds := s.byFile[file]
	if len(ds) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(ds))
	copy(out, ds)
	return out
}

// FileHasError reports whether file has at least one error-level diagnostic.
func (s *Store) FileHasError(file string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return HasError(s.byFile[file])
}

// Files returns the files with diagnostics, sorted.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]string, 0, len(s.byFile))
	for f := range s.byFile {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Counts returns the number of diagnostics per level across all files.
func (s *Store) Counts() map[Level]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[Level]int)
	for _, ds := range s.byFile {
		for _, d := range ds {
			counts[d.Level]++
		}
	}
	return counts
}

// ForFile returns a Sink that attributes diagnostics without a file to file.
func (s *Store) ForFile(file string) Sink {
	return fileSink{store: s, file: file}
}

type fileSink struct {
	store *Store
	file  string
}

func (f fileSink) Add(d Diagnostic) {
	if d.Source.File == "" {
		d.Source.File = f.file
	}
	f.store.Add(d)
}
