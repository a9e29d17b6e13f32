package report

import (
	"fmt"
	"strings"

	"aoe4coach/internal/coach"
	"aoe4coach/internal/stats"
)

// BuildCoachingPrompt assembles the prompt handed to an external LLM.
// The LLM call itself is the caller's concern; this package only shapes
// the text. Metrics with no reference data are stated as such so the
// model does not invent a baseline.
func BuildCoachingPrompt(cmp *coach.Comparison) string {
	var b strings.Builder
	tl := cmp.Player.Timeline

	b.WriteString("You are an expert Age of Empires IV coach. Analyze this game and provide specific, actionable improvement advice.\n\n")
	fmt.Fprintf(&b, "Player: %s (%s), rating %d, result: %s, map: %s, duration: %s\n\n",
		tl.PlayerName, tl.Civilization, tl.Rating, tl.Result, tl.Map, FormatDuration(tl.DurationSeconds))

	b.WriteString("Measured metrics versus higher-rated reference games:\n")
	for _, m := range cmp.Report.Metrics {
		if m.Severity == stats.NoReference {
			fmt.Fprintf(&b, "- %s: %s (no reference data)\n", m.Name, formatMetricValue(m.Kind, m.Player))
			continue
		}
		fmt.Fprintf(&b, "- %s: %s vs reference avg %s (delta %s, severity %s; %s)\n",
			m.Name,
			formatMetricValue(m.Kind, m.Player),
			formatMetricValue(m.Kind, m.Reference.Average),
			formatDelta(m.Kind, m.Delta),
			m.Severity,
			m.Convention)
	}

	if gaps := cmp.Player.WorkerGaps; gaps.IncidentCount > 0 {
		fmt.Fprintf(&b, "\nWorker production idle gaps (%d incidents, %s excess total):\n",
			gaps.IncidentCount, FormatDuration(gaps.TotalExcess))
		for _, iv := range gaps.Intervals {
			fmt.Fprintf(&b, "- idle from %s to %s\n", FormatDuration(iv.Start), FormatDuration(iv.End))
		}
	}

	if cmp.Player.Composition.Total > 0 {
		b.WriteString("\nArmy composition:\n")
		for _, c := range cmp.Player.Composition.Categories {
			fmt.Fprintf(&b, "- %s: %d (%.1f%%)\n", c.Category, c.Count, c.Percentage)
		}
	}

	b.WriteString("\nProvide a coaching report with:\n")
	b.WriteString("1. Overall performance rating (S/A/B/C/D)\n")
	b.WriteString("2. Key strengths (2-3 points)\n")
	b.WriteString("3. Areas for improvement, each with the timestamp it refers to\n")
	b.WriteString("4. Actionable training recommendations for the next games\n")
	b.WriteString("Only reference the measurements above; do not invent numbers.\n")

	return b.String()
}
