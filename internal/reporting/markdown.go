package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Mode: %s | Trials: %d | Pool: %d players\n\n",
		r.RunID, r.Mode, r.Trials, r.PoolSize))

	// Config adjustments
	if len(r.ConfigNotes) > 0 {
		sb.WriteString("## Config Adjustments\n\n")
		for _, note := range r.ConfigNotes {
			sb.WriteString(fmt.Sprintf("- %s\n", note))
		}
		sb.WriteString("\n")
	}

	// Candidate rankings
	if r.Mode == "candidate" {
		sb.WriteString("## Candidate Rankings\n\n")
		if len(r.Candidates) > 0 {
			sb.WriteString("| Player | Position | ADP | Win% | Avg Score |\n")
			sb.WriteString("|--------|----------|-----|------|----------|\n")
			for _, c := range r.Candidates {
				sb.WriteString(fmt.Sprintf("| %s | %s | %.1f | %.2f | %.2f |\n",
					c.Name, c.Position, c.ADP, c.WinPct, c.AvgScore))
			}
		} else {
			sb.WriteString("No candidates evaluated.\n")
		}
		sb.WriteString("\n")
	}

	// Projected standings
	if r.Mode == "standings" {
		sb.WriteString("## Projected Standings\n\n")
		if len(r.Standings) > 0 {
			sb.WriteString("| Rank | Team | Win% | Avg Score |\n")
			sb.WriteString("|------|------|------|----------|\n")
			for i, s := range r.Standings {
				sb.WriteString(fmt.Sprintf("| %d | %d | %.2f | %.2f |\n",
					i+1, s.TeamIndex+1, s.WinPct, s.AvgScore))
			}
		} else {
			sb.WriteString("No standings available.\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
