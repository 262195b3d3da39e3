package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
)

var (
	zoneOpen = regexp.MustCompile(`^\s{0,3}:::\s*moniker\s+range\s*=\s*"([^"]*)"\s*$`)
	zoneEnd  = regexp.MustCompile(`^\s{0,3}:::\s*moniker-end\s*$`)
	fence    = regexp.MustCompile("^\\s{0,3}(`{3,}|~{3,})")
)

// Zone is one resolved moniker zone.
type Zone struct {
	Line     int
	Range    string
	Monikers []string
}

// ZoneResolver resolves the range string of a zone opened at line.
// Diagnostics are the resolver's concern; the engine only needs the result.
type ZoneResolver func(line int, rangeString string) []string

// expandZones rewrites zone markers into raw HTML blocks so the renderer
// wraps zone content in <div data-moniker="...">. Markers inside fenced
// code are left alone. Zones do not nest.
func expandZones(body []byte, baseLine int, resolve ZoneResolver, sink diagnostics.Sink, file string) ([]byte, []Zone) {
	if !bytes.Contains(body, []byte(":::")) {
		return body, nil
	}

	var (
		out      bytes.Buffer
		zones    []Zone
		inFence  string
		openLine int
	)
	lines := strings.SplitAfter(string(body), "\n")
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r\n")
		lineNo := baseLine + i

		if m := fence.FindStringSubmatch(line); m != nil {
			marker := m[1][:1]
			switch {
			case inFence == "":
				inFence = marker
			case inFence == marker:
				inFence = ""
			}
			out.WriteString(raw)
			continue
		}
		if inFence != "" {
			out.WriteString(raw)
			continue
		}

		if m := zoneOpen.FindStringSubmatch(line); m != nil {
			if openLine != 0 {
				sink.Add(diagnostics.InvalidZone(diagnostics.At(file, lineNo, 1), "moniker zones cannot be nested"))
				continue
			}
			monikers := resolve(lineNo, m[1])
			zones = append(zones, Zone{Line: lineNo, Range: m[1], Monikers: monikers})
			openLine = lineNo
			out.WriteString("\n<div data-moniker=\"" + strings.Join(monikers, " ") + "\">\n\n")
			continue
		}
		if zoneEnd.MatchString(line) {
			if openLine == 0 {
				sink.Add(diagnostics.InvalidZone(diagnostics.At(file, lineNo, 1), "moniker-end without an open zone"))
				continue
			}
			openLine = 0
			out.WriteString("\n</div>\n\n")
			continue
		}
		out.WriteString(raw)
	}
	if openLine != 0 {
		sink.Add(diagnostics.InvalidZone(diagnostics.At(file, openLine, 1), "zone is not closed by ::: moniker-end"))
		out.WriteString("\n\n</div>\n")
	}
	return out.Bytes(), zones
}
