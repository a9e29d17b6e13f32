package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"aoe4coach/internal/aoe4world"
	"aoe4coach/internal/coach"
	"aoe4coach/internal/stats"
	"aoe4coach/internal/timeline"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Renderer turns a comparison into a human-readable coaching report.
// The name resolver is the only place display names enter the pipeline;
// everything upstream works on opaque item IDs.
type Renderer struct {
	names aoe4world.NameResolver
}

// NewRenderer creates a Renderer. names may be nil, in which case item
// IDs are shown as-is.
func NewRenderer(names aoe4world.NameResolver) *Renderer {
	return &Renderer{names: names}
}

// Markdown renders the full coaching report.
func (r *Renderer) Markdown(cmp *coach.Comparison) string {
	var b strings.Builder
	tl := cmp.Player.Timeline

	fmt.Fprintf(&b, "# Coaching Report: %s (%s) on %s\n\n", tl.PlayerName, tl.Civilization, tl.Map)
	fmt.Fprintf(&b, "Result: %s | Rating: %d | Duration: %s\n\n", tl.Result, tl.Rating, FormatDuration(tl.DurationSeconds))

	if cmp.Report.ReferenceGames == 0 {
		b.WriteString("No reference data was available; the numbers below describe this game only.\n\n")
	} else {
		fmt.Fprintf(&b, "Compared against %d reference game(s).\n\n", cmp.Report.ReferenceGames)
	}
	if cmp.FailedReferences > 0 {
		fmt.Fprintf(&b, "%d reference game(s) could not be fetched and were skipped.\n\n", cmp.FailedReferences)
	}

	b.WriteString("## Metrics\n\n")
	b.WriteString("| Metric | You | Reference avg | Best | Delta | Severity |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, m := range cmp.Report.Metrics {
		b.WriteString(renderMetricRow(m))
	}
	b.WriteString("\n")

	r.writeIdleSection(&b, cmp.Player)
	r.writeCompositionSection(&b, cmp.Player)

	if cmp.ClosestReference != nil {
		ref := cmp.ClosestReference.Timeline
		fmt.Fprintf(&b, "## Closest Reference\n\n%s (%s, rating %d): feudal %s, %d military units.\n",
			ref.PlayerName, ref.Civilization, ref.Rating,
			formatMilestone(cmp.ClosestReference.Milestones.FeudalAge),
			cmp.ClosestReference.Composition.Total)
		if tops := r.topUnits(ref, 3); len(tops) > 0 {
			fmt.Fprintf(&b, "Their core units: %s\n", strings.Join(tops, ", "))
		}
	}

	return b.String()
}

func renderMetricRow(m stats.MetricComparison) string {
	if m.Severity == stats.NoReference {
		return fmt.Sprintf("| %s | %s | n/a | n/a | n/a | no reference data |\n",
			m.Name, formatMetricValue(m.Kind, m.Player))
	}
	return fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
		m.Name,
		formatMetricValue(m.Kind, m.Player),
		formatMetricValue(m.Kind, m.Reference.Average),
		formatMetricValue(m.Kind, m.Reference.Best),
		formatDelta(m.Kind, m.Delta),
		m.Severity)
}

func (r *Renderer) writeIdleSection(b *strings.Builder, a *coach.GameAnalysis) {
	b.WriteString("## Worker Production Gaps\n\n")
	if a.WorkerGaps.IncidentCount == 0 {
		b.WriteString("No idle gaps above the cadence threshold. Well done.\n\n")
		return
	}
	fmt.Fprintf(b, "%d incident(s), %s of excess idle time (longest %s):\n\n",
		a.WorkerGaps.IncidentCount,
		FormatDuration(a.WorkerGaps.TotalExcess),
		FormatDuration(a.WorkerGaps.LongestGap))
	for _, iv := range a.WorkerGaps.Intervals {
		fmt.Fprintf(b, "- %s to %s (%s over threshold)\n",
			FormatDuration(iv.Start), FormatDuration(iv.End), FormatDuration(iv.Excess))
	}
	b.WriteString("\n")
}

func (r *Renderer) writeCompositionSection(b *strings.Builder, a *coach.GameAnalysis) {
	b.WriteString("## Army Composition\n\n")
	if a.Composition.Total == 0 {
		b.WriteString("No military units were produced.\n\n")
		return
	}
	for _, c := range a.Composition.Categories {
		fmt.Fprintf(b, "- %s: %d (%.1f%%)\n", c.Category, c.Count, c.Percentage)
	}
	if tops := r.topUnits(a.Timeline, 3); len(tops) > 0 {
		fmt.Fprintf(b, "\nMost produced units: %s\n", strings.Join(tops, ", "))
	}
	b.WriteString("\n")
}

// topUnits lists the n most produced unit lines with resolved display
// names, e.g. "Villager (34)". Ties resolve by item ID to keep the
// report deterministic.
func (r *Renderer) topUnits(tl timeline.GameTimeline, n int) []string {
	type line struct {
		itemID string
		pbgid  int
		count  int
	}
	counts := make(map[string]*line)
	for _, e := range tl.Events {
		if e.Kind != timeline.Unit || e.Type != timeline.Finished {
			continue
		}
		l, ok := counts[e.ItemID]
		if !ok {
			l = &line{itemID: e.ItemID, pbgid: e.Pbgid}
			counts[e.ItemID] = l
		}
		l.count++
	}

	lines := make([]line, 0, len(counts))
	for _, l := range counts {
		lines = append(lines, *l)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].count != lines[j].count {
			return lines[i].count > lines[j].count
		}
		return lines[i].itemID < lines[j].itemID
	})
	if len(lines) > n {
		lines = lines[:n]
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s (%d)", r.DisplayName(l.pbgid, l.itemID), l.count)
	}
	return out
}

// Write saves the rendered report under dir with a unique name and
// returns the full path.
func (r *Renderer) Write(dir string, cmp *coach.Comparison) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("report-%d-%s.md", cmp.Player.Timeline.GameID, uuid.NewString()[:8]))
	if err := os.WriteFile(path, []byte(r.Markdown(cmp)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("path", path).Msg("Report written")
	return path, nil
}

// DisplayName resolves a timeline item to a readable label.
func (r *Renderer) DisplayName(pbgid int, itemID string) string {
	fallback := strings.ReplaceAll(itemID, "-", " ")
	if r.names == nil {
		return fallback
	}
	return r.names.Name(pbgid, fallback)
}

// FormatDuration renders seconds as M:SS, switching to H:MM:SS past an
// hour.
func FormatDuration(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatMilestone(ts *int) string {
	if ts == nil {
		return "not reached"
	}
	return FormatDuration(*ts)
}

func formatMetricValue(kind stats.MetricKind, v float64) string {
	switch kind {
	case stats.Timing:
		return FormatDuration(int(v + 0.5))
	case stats.Percentage:
		return fmt.Sprintf("%.1f%%", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

func formatDelta(kind stats.MetricKind, delta float64) string {
	sign := "+"
	if delta < 0 {
		sign = "-"
		delta = -delta
	}
	switch kind {
	case stats.Timing:
		return fmt.Sprintf("%s%s", sign, FormatDuration(int(delta+0.5)))
	case stats.Percentage:
		return fmt.Sprintf("%s%.1f%%", sign, delta)
	default:
		return fmt.Sprintf("%s%.1f", sign, delta)
	}
}
