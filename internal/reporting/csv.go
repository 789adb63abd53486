package reporting

import (
	"fmt"
	"strings"
)

// RenderCandidatesCSV renders candidate rankings as CSV string.
func RenderCandidatesCSV(rows []CandidateRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("player_id,name,position,adp,win_pct,avg_score\n")

	// Rows
	for _, c := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.2f,%.4f,%.4f\n",
			c.PlayerID,
			csvEscape(c.Name),
			c.Position,
			c.ADP,
			c.WinPct,
			c.AvgScore,
		))
	}

	return sb.String()
}

// RenderStandingsCSV renders projected standings as CSV string.
func RenderStandingsCSV(rows []StandingRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("team_index,win_pct,avg_score\n")

	// Rows
	for _, s := range rows {
		sb.WriteString(fmt.Sprintf("%d,%.4f,%.4f\n",
			s.TeamIndex,
			s.WinPct,
			s.AvgScore,
		))
	}

	return sb.String()
}

// csvEscape quotes a field containing commas or quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}
