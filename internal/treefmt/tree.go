// Package treefmt renders a zone's scope tree as indented text.
package treefmt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/gitlisted/tracing-framework/internal/event"
	"github.com/gitlisted/tracing-framework/internal/scope"
	"github.com/gitlisted/tracing-framework/internal/zoneindex"
)

// NameWidth is the column width reserved for the indented scope name.
const NameWidth = 40

// Options control the rendering.
type Options struct {
	Color bool
	// MaxDepth limits the printed depth; 0 prints everything.
	MaxDepth int
}

type palette struct {
	zone  *color.Color
	name  *color.Color
	time  *color.Color
	open  *color.Color
	count *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		zone:  color.New(color.FgCyan, color.Bold),
		name:  color.New(color.FgWhite, color.Bold),
		time:  color.New(color.FgHiBlack),
		open:  color.New(color.FgYellow),
		count: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.zone, p.name, p.time, p.open, p.count} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Write prints every scope of idx, one per line, children indented under
// their parent. Each line shows enter time, duration (or "open") and the
// number of events associated with the scope besides its enter and leave.
func Write(w io.Writer, idx *zoneindex.Index, opts Options) error {
	if idx == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	p := newPalette(opts.Color)
	tree := idx.Scopes()
	counts := associatedCounts(idx, tree)

	st := idx.Stats()
	fmt.Fprintf(bw, "%s  %d scopes, %d open, %d events\n",
		p.zone.Sprint(idx.Zone().String()), st.Scopes, st.OpenScopes, idx.Count())

	tree.Walk(func(id event.ScopeID, depth int) bool {
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return false
		}
		writeLine(bw, p, tree.Get(id), depth, counts[id])
		return true
	})
	return bw.Flush()
}

func writeLine(w io.Writer, p palette, s *scope.Scope, depth int, associated int) {
	label := strings.Repeat("  ", depth) + s.Name()
	label = runewidth.Truncate(label, NameWidth, "…")
	label = runewidth.FillRight(label, NameWidth)

	var dur string
	if s.IsOpen() {
		dur = p.open.Sprint(fmt.Sprintf("%12s", "open"))
	} else {
		dur = fmt.Sprintf("%12s", formatTime(s.Duration()))
	}
	fmt.Fprintf(w, "%s %s %s", p.name.Sprint(label), p.time.Sprint(fmt.Sprintf("@%-12s", formatTime(s.EnterTime()))), dur)
	if associated > 0 {
		fmt.Fprintf(w, "  %s", p.count.Sprintf("+%d", associated))
	}
	fmt.Fprintln(w)
}

func associatedCounts(idx *zoneindex.Index, tree *scope.Tree) map[event.ScopeID]int {
	counts := make(map[event.ScopeID]int)
	for _, e := range idx.Events() {
		id := e.Scope()
		if !id.IsValid() {
			continue
		}
		s := tree.Get(id)
		if s == nil || s.Enter == e || s.Leave == e {
			continue
		}
		counts[id]++
	}
	return counts
}

func formatTime(t float64) string {
	return fmt.Sprintf("%.3fms", t)
}
