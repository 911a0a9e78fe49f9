package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/perform"
)

// TrackMarkdown renders one entity's monthly performance series. The
// first month's return is "n/a": there is no prior month to measure
// against, and that is not the same thing as a flat month.
func TrackMarkdown(s *perform.Series) string {
	w := &strings.Builder{}
	fmt.Fprintf(w, "# Monthly Performance of %s\n\n", s.Entity())
	if s.Len() == 0 {
		fmt.Fprintf(w, "No monthly valuation yet.\n")
		return w.String()
	}

	fmt.Fprint(w, "| Month | Valued On | Value | Monthly | Cumulative |\n")
	fmt.Fprint(w, "|:---|:---|---:|---:|---:|\n")
	for _, p := range s.Points() {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			p.Month, p.On, money(p.Value), p.Monthly.SignedString(), p.Cumulative.SignedString())
	}

	if missing := s.MissingMonths(); len(missing) > 0 {
		labels := make([]string, 0, len(missing))
		for _, m := range missing {
			labels = append(labels, m.String())
		}
		fmt.Fprintf(w, "\nMissing months: %s\n", strings.Join(labels, ", "))
	}
	return w.String()
}
