package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/perform"
)

// GapsMarkdown renders the data gap report: per entity, what could not be
// resolved, what resolved fuzzily, what had no price, which months are
// missing, and whether the entity failed outright. A clean entity prints
// nothing.
func GapsMarkdown(rep *perform.Report) string {
	w := &strings.Builder{}
	fmt.Fprintf(w, "# Data Gap Report\n\n")
	fmt.Fprintf(w, "Run %s, created %s.\n\n", rep.RunID, rep.Created.Format("2006-01-02 15:04:05"))

	if !rep.HasGaps() {
		fmt.Fprintf(w, "No gaps: every security resolved and priced.\n")
		return w.String()
	}

	for _, er := range rep.Entities() {
		ConditionalBlock(w, func(bw io.Writer) bool {
			return renderEntityGaps(bw, er)
		})
	}
	return w.String()
}

// renderEntityGaps writes one entity's section and reports whether it had
// anything to say.
func renderEntityGaps(w io.Writer, er *perform.EntityReport) bool {
	if !er.HasGaps() {
		return false
	}
	fmt.Fprintf(w, "## %s\n\n", er.Entity)

	if er.Err != "" {
		fmt.Fprintf(w, "**Failed**: %s\n\n", er.Err)
	}

	unresolved := Header(func(w io.Writer) {
		fmt.Fprint(w, "| Unresolved Security | Best Near Miss | Score |\n")
		fmt.Fprint(w, "|:---|:---|---:|\n")
	}).Footer(func(w io.Writer) { fmt.Fprintln(w, "") })
	for _, g := range er.Unresolved {
		unresolved.PrintHeader(w)
		best := g.Best
		if best == "" {
			best = "-"
		}
		fmt.Fprintf(w, "| %s | %s | %.2f |\n", g.Name, best, g.Score)
	}
	unresolved.PrintFooter(w)

	fuzzy := Header(func(w io.Writer) {
		fmt.Fprint(w, "| Fuzzy Match | Instrument | Matched | Score |\n")
		fmt.Fprint(w, "|:---|:---|:---|---:|\n")
	}).Footer(func(w io.Writer) { fmt.Fprintln(w, "") })
	for _, n := range er.FuzzyMatches {
		fuzzy.PrintHeader(w)
		fmt.Fprintf(w, "| %s | %s | %s | %.2f |\n", n.Name, n.ID, n.Matched, n.Score)
	}
	fuzzy.PrintFooter(w)

	prices := Header(func(w io.Writer) {
		fmt.Fprint(w, "| Missing Price | On |\n")
		fmt.Fprint(w, "|:---|:---|\n")
	}).Footer(func(w io.Writer) { fmt.Fprintln(w, "") })
	for _, g := range er.PriceGaps {
		prices.PrintHeader(w)
		fmt.Fprintf(w, "| %s | %s |\n", g.ID, g.On)
	}
	prices.PrintFooter(w)

	if len(er.MissingMonths) > 0 {
		labels := make([]string, 0, len(er.MissingMonths))
		for _, m := range er.MissingMonths {
			labels = append(labels, m.String())
		}
		fmt.Fprintf(w, "Missing months: %s\n\n", strings.Join(labels, ", "))
	}
	return true
}
