package plan

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Plan rendering for the CLI: markdown, plus an HTML export converted from
// the same markdown.

// FormatMarkdown renders the plan as a markdown document grouped by week.
func FormatMarkdown(plan Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Workout Plan\n\n")
	fmt.Fprintf(&b, "- Objective: %s\n", plan.Objective)
	fmt.Fprintf(&b, "- Fitness level: %s\n", plan.FitnessLevel)
	fmt.Fprintf(&b, "- Schedule: %d sessions/week for %d weeks\n\n", plan.SessionsPerWeek, plan.TotalWeeks)

	currentWeek := 0
	for _, day := range plan.Days {
		week := day.DayIndex/plan.SessionsPerWeek + 1
		if week != currentWeek {
			currentWeek = week
			fmt.Fprintf(&b, "## Week %d\n\n", week)
		}

		fmt.Fprintf(&b, "### %s (%s)\n\n", day.SessionName, day.Date.Format("Mon 2006-01-02"))
		fmt.Fprintf(&b, "Estimated duration: %d min\n\n", day.TotalDurationSeconds/60)

		for _, item := range day.Items {
			fmt.Fprintf(&b, "- **%s** — %s\n", item.Exercise.Name, formatDose(item.Prescription))
			if item.Note != "" {
				fmt.Fprintf(&b, "  - %s\n", item.Note)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// formatDose renders a prescription as a compact one-liner.
func formatDose(p Prescription) string {
	var parts []string

	switch {
	case p.DurationSeconds != nil:
		parts = append(parts, fmt.Sprintf("%d x %ds", p.Sets, *p.DurationSeconds))
	case p.Reps != nil:
		parts = append(parts, fmt.Sprintf("%d x %d", p.Sets, *p.Reps))
	default:
		parts = append(parts, fmt.Sprintf("%d sets", p.Sets))
	}

	if p.WeightKg > 0 {
		parts = append(parts, fmt.Sprintf("%.1f kg", p.WeightKg))
	}
	parts = append(parts, fmt.Sprintf("rest %ds", p.RestSeconds))
	if p.RPE != nil {
		parts = append(parts, fmt.Sprintf("RPE %.1f", *p.RPE))
	}

	return strings.Join(parts, ", ")
}

// FormatHTML renders the plan's markdown as a standalone HTML document.
func FormatHTML(plan Plan) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(FormatMarkdown(plan)), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var doc bytes.Buffer
	doc.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	doc.WriteString("<title>Workout Plan</title>\n</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}
