package diagnostics

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ClearFileIsolation(t *testing.T) {
	s := NewStore()
	s.Add(New("a", LevelWarning, At("a.md", 1, 1), "first"))
	s.Add(New("b", LevelError, At("b.md", 2, 1), "second"))

	s.ClearFile("a.md")

	assert.Empty(t, s.FileDiagnostics("a.md"))
	require.Len(t, s.FileDiagnostics("b.md"), 1)
	assert.True(t, s.FileHasError("b.md"))
	assert.Equal(t, []string{"b.md"}, s.Files())
}

func TestStore_ReplaceFile(t *testing.T) {
	s := NewStore()
	s.Add(New("old", LevelError, At("a.md", 1, 1), "stale"))

	s.ReplaceFile("a.md", []Diagnostic{New("new", LevelInfo, At("a.md", 3, 1), "fresh")})

	got := s.FileDiagnostics("a.md")
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Code)
	assert.False(t, s.FileHasError("a.md"))

	s.ReplaceFile("a.md", nil)
	assert.Empty(t, s.Files())
}

func TestStore_FileDiagnosticsReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(New("x", LevelWarning, At("a.md", 1, 1), "m"))

	got := s.FileDiagnostics("a.md")
	got[0].Code = "mutated"

	assert.Equal(t, "x", s.FileDiagnostics("a.md")[0].Code)
}

func TestStore_ForFileFillsMissingFile(t *testing.T) {
	s := NewStore()
	sink := s.ForFile("a.md")
	sink.Add(Diagnostic{Code: "c", Level: LevelWarning})
	sink.Add(New("d", LevelWarning, At("other.md", 1, 1), "kept"))

	assert.Len(t, s.FileDiagnostics("a.md"), 1)
	assert.Len(t, s.FileDiagnostics("other.md"), 1)
}

func TestStore_ConcurrentFilesDoNotInterfere(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			file := fmt.Sprintf("f%d.md", i)
			for round := range 50 {
				s.ClearFile(file)
				s.Add(New("code", LevelWarning, At(file, round, 1), "round %d", round))
			}
		}(i)
	}
	wg.Wait()

	for i := range 8 {
		ds := s.FileDiagnostics(fmt.Sprintf("f%d.md", i))
		require.Len(t, ds, 1)
		assert.Equal(t, "round 49", ds[0].Message)
	}
	assert.Equal(t, 8, s.Counts()[LevelWarning])
}

func TestLevel_TextRoundTrip(t *testing.T) {
	var l Level
	require.NoError(t, l.UnmarshalText([]byte("Suggestion")))
	assert.Equal(t, LevelSuggestion, l)
	assert.Error(t, l.UnmarshalText([]byte("fatal")))
	assert.Equal(t, "level(9)", Level(9).String())
}

func TestToProtocol(t *testing.T) {
	ds := []Diagnostic{
		{Code: "e", Level: LevelError, Message: "m", Source: Source{File: "a.md", Line: 3, Column: 5, EndLine: 3, EndColumn: 9}},
		{Code: "i", Level: LevelInfo, Source: Source{File: "a.md"}},
	}
	got := ToProtocol(ds)
	require.Len(t, got, 2)
	assert.Equal(t, Range{Start: Position{2, 4}, End: Position{2, 8}}, got[0].Range)
	assert.Equal(t, 1, got[0].Severity)
	assert.Equal(t, 4, got[1].Severity)
	assert.Equal(t, Position{0, 0}, got[1].Range.Start)
}

func TestNoMonikersIntersectionMessage(t *testing.T) {
	d := NoMonikersIntersection(At("a.md", 4, 1), "< v2", []string{"v1"}, []string{"v2", "v3"})
	assert.Equal(t, LevelWarning, d.Level)
	assert.Contains(t, d.Message, "`< v2` is v1")
	assert.Contains(t, d.Message, "file level monikers is v2,v3")
}
