package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/search"
)

func printTerms(w io.Writer, terms []client.Term) {
	if len(terms) == 0 {
		fmt.Fprintln(w, "No terms found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range terms {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Subject)
	}
	_ = tw.Flush()
}

func printOutcome(w io.Writer, o search.Outcome, minLen int) {
	switch o.Status {
	case search.StatusIdle:
		fmt.Fprintf(w, "Type at least %d characters to search.\n", minLen)
		return
	case search.StatusNoMatches:
		fmt.Fprintf(w, "No terms match %q.\n", o.Query)
		return
	}
	if o.Degraded {
		fmt.Fprintln(w, "(metadata unavailable, results are unranked)")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range o.Results {
		badge := ""
		if r.Badge != nil {
			badge = strings.TrimSpace(r.Badge.Icon + " " + r.Badge.Label)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Term.Name, r.Term.Subject, badge)
	}
	_ = tw.Flush()
}

func printMeta(w io.Writer, m client.TermMetadata) {
	fmt.Fprintf(w, "Favorite: %s  Bookmark: %s  Difficulty: %s  Rating: %s\n",
		yesNo(bool(m.Favorite)), yesNo(bool(m.Bookmark)), m.Difficulty, stars(m.Rating))
	if m.Notes != "" {
		fmt.Fprintf(w, "Notes: %s\n", m.Notes)
	}
	if m.LastViewed != nil {
		fmt.Fprintf(w, "Last viewed: %s\n", m.LastViewed.Local().Format("2006-01-02 15:04"))
	}
}

func printDetail(w io.Writer, d client.TermDetail) {
	fmt.Fprintf(w, "%s (%s)\n\n", d.Name, d.Subject)
	if d.Definition != "" {
		fmt.Fprintf(w, "%s\n\n", d.Definition)
	}
	if len(d.KeyPoints) > 0 {
		fmt.Fprintln(w, "Key points:")
		for _, p := range d.KeyPoints {
			fmt.Fprintf(w, "  - %s\n", p)
		}
		fmt.Fprintln(w)
	}
	if d.Example != "" {
		fmt.Fprintf(w, "Example: %s\n\n", d.Example)
	}
	printQA(w, "Objective questions", d.ObjectiveQA)
	printQA(w, "Descriptive questions", d.DescriptiveQA)
	if len(d.Quiz) > 0 {
		fmt.Fprintln(w, "Quiz:")
		for i, q := range d.Quiz {
			fmt.Fprintf(w, "  %d. %s\n", i+1, q.Prompt())
			keys := make([]string, 0, len(q.Options))
			for k := range q.Options {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "     %s) %s\n", k, q.Options[k])
			}
			if a := q.Answer(); a != "" {
				fmt.Fprintf(w, "     Answer: %s\n", a)
			}
			if q.Explanation != "" {
				fmt.Fprintf(w, "     %s\n", q.Explanation)
			}
		}
		fmt.Fprintln(w)
	}
	printMeta(w, d.Meta)
}

func printQA(w io.Writer, title string, qa []client.QA) {
	if len(qa) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, q := range qa {
		fmt.Fprintf(w, "  Q: %s\n  A: %s\n", q.Question, q.Answer)
	}
	fmt.Fprintln(w)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func stars(n int) string {
	if n <= 0 {
		return "-"
	}
	return strings.Repeat("*", n)
}
