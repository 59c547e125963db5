// Package search ranks catalog terms against a query using the user's
// metadata, and debounces bursts of queries into single ranking passes.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/precedence"
)

// Score weights.
const (
	WeightFavorite   = 10
	WeightBookmark   = 5
	WeightNotes      = 3
	WeightDifficulty = 2
	WeightRating     = 1
)

// DefaultMinQueryLength is the shortest query that triggers a search.
const DefaultMinQueryLength = 2

// Status distinguishes "not searching yet" from "searched, nothing found".
type Status int

const (
	StatusIdle Status = iota
	StatusNoMatches
	StatusResults
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusNoMatches:
		return "no_matches"
	case StatusResults:
		return "results"
	default:
		return "unknown"
	}
}

// Badge is the single display marker attached to a result.
type Badge struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// Result is one ranked match.
type Result struct {
	Term  client.Term `json:"term"`
	Score int         `json:"score"`
	Badge *Badge      `json:"badge,omitempty"`
}

// Outcome is the answer to one query.
type Outcome struct {
	Query    string   `json:"query"`
	Status   Status   `json:"status"`
	Results  []Result `json:"results"`
	Degraded bool     `json:"degraded,omitempty"`
}

// Normalize trims and lower-cases a raw query.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// TooShort reports whether a normalized query is below minLen characters.
func TooShort(q string, minLen int) bool {
	return utf8.RuneCountInString(q) < minLen
}

// Score is the weighted sum used for ordering.
func Score(m client.MetaSummary) int {
	s := 0
	if m.Favorite {
		s += WeightFavorite
	}
	if m.Bookmark {
		s += WeightBookmark
	}
	if m.HasNotes {
		s += WeightNotes
	}
	if m.Difficulty.Known() {
		s += WeightDifficulty
	}
	if m.Rating > 0 {
		s += WeightRating
	}
	return s
}

var badgeRules = precedence.List[client.MetaSummary, Badge]{
	{Name: "favorite", Match: func(m client.MetaSummary) bool { return bool(m.Favorite) }, Label: precedence.Const[client.MetaSummary](Badge{Icon: "★", Label: "High Priority"})},
	{Name: "bookmark", Match: func(m client.MetaSummary) bool { return bool(m.Bookmark) }, Label: precedence.Const[client.MetaSummary](Badge{Icon: "🔖", Label: "Bookmarked"})},
	{Name: "notes", Match: func(m client.MetaSummary) bool { return bool(m.HasNotes) }, Label: precedence.Const[client.MetaSummary](Badge{Icon: "📝", Label: "Has Notes"})},
	{Name: "difficulty", Match: func(m client.MetaSummary) bool { return m.Difficulty.Known() }, Label: func(m client.MetaSummary) Badge {
		return Badge{Label: string(m.Difficulty)}
	}},
}

// BadgeFor returns the highest-precedence badge for m, if any.
func BadgeFor(m client.MetaSummary) (Badge, bool) {
	b, _, ok := badgeRules.First(m)
	return b, ok
}

// Match reports whether the normalized query occurs in the term's name or subject.
func Match(q string, t client.Term) bool {
	return strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Subject), q)
}

// Rank filters terms by q and orders the matches by descending score. Ties
// keep catalog order. A nil snapshot produces a degraded outcome: catalog
// order and no badges.
func Rank(raw string, terms []client.Term, snapshot []client.MetaSummary, minLen int) Outcome {
	q := Normalize(raw)
	out := Outcome{Query: q, Results: []Result{}}
	if TooShort(q, minLen) {
		out.Status = StatusIdle
		return out
	}

	var meta map[string]client.MetaSummary
	if snapshot == nil {
		out.Degraded = true
	} else {
		meta = make(map[string]client.MetaSummary, len(snapshot))
		for _, m := range snapshot {
			meta[m.Term] = m
		}
	}

	seen := make(map[string]struct{})
	for _, t := range terms {
		if _, dup := seen[t.Name]; dup || !Match(q, t) {
			continue
		}
		seen[t.Name] = struct{}{}
		r := Result{Term: t}
		if m, ok := meta[t.Name]; ok {
			r.Score = Score(m)
			if b, ok := BadgeFor(m); ok {
				r.Badge = &b
			}
		}
		out.Results = append(out.Results, r)
	}

	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].Score > out.Results[j].Score
	})

	if len(out.Results) == 0 {
		out.Status = StatusNoMatches
	} else {
		out.Status = StatusResults
	}
	return out
}
