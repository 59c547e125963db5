package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Term is one catalog entry. The list endpoints only populate Name and Subject.
type Term struct {
	Name          string     `json:"term"`
	Subject       string     `json:"subject"`
	Definition    string     `json:"definition,omitempty"`
	KeyPoints     []string   `json:"keyPoints,omitempty"`
	Example       string     `json:"example,omitempty"`
	ObjectiveQA   []QA       `json:"objective_qa,omitempty"`
	DescriptiveQA []QA       `json:"descriptive_qa,omitempty"`
	Quiz          []QuizItem `json:"quiz_data,omitempty"`
}

// QA is a question/answer pair attached to a term.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizItem is a multiple-choice question. Options are keyed by letter.
type QuizItem struct {
	QuestionText     string            `json:"question_text,omitempty"`
	Question         string            `json:"question,omitempty"`
	Options          map[string]string `json:"options,omitempty"`
	CorrectAnswerKey string            `json:"correct_answer_key,omitempty"`
	CorrectAnswer    string            `json:"correct_answer,omitempty"`
	Explanation      string            `json:"explanation,omitempty"`
}

// Prompt returns the question text, whichever field the service filled.
func (q QuizItem) Prompt() string {
	if q.QuestionText != "" {
		return q.QuestionText
	}
	return q.Question
}

// Answer returns the correct option key, falling back to the answer text.
func (q QuizItem) Answer() string {
	if q.CorrectAnswerKey != "" {
		return q.CorrectAnswerKey
	}
	return q.CorrectAnswer
}

// Subject is a subject name with the number of terms filed under it.
type Subject struct {
	Name  string `json:"subject"`
	Count int    `json:"count"`
}

// Difficulty is the user's self-assessed difficulty of a term.
type Difficulty string

const (
	DifficultyUnknown Difficulty = "unknown"
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
)

// Known reports whether d carries an actual assessment.
func (d Difficulty) Known() bool {
	return d != "" && d != DifficultyUnknown
}

// TermMetadata is the per-term user annotation record.
type TermMetadata struct {
	Favorite     Flag       `json:"favorite"`
	Bookmark     Flag       `json:"bookmark"`
	Difficulty   Difficulty `json:"difficulty"`
	Rating       int        `json:"rating"`
	Notes        string     `json:"notes"`
	LastViewed   *time.Time `json:"-"`
	ReadStatus   string     `json:"read_status,omitempty"`
	PersonalTags string     `json:"personal_tags,omitempty"`
}

type termMetadataWire struct {
	Favorite     Flag       `json:"favorite"`
	Bookmark     Flag       `json:"bookmark"`
	Difficulty   Difficulty `json:"difficulty"`
	Rating       int        `json:"rating"`
	Notes        string     `json:"notes"`
	LastViewed   *string    `json:"last_viewed"`
	ReadStatus   string     `json:"read_status,omitempty"`
	PersonalTags string     `json:"personal_tags,omitempty"`
}

// UnmarshalJSON accepts the service's ISO timestamps, which may lack a zone.
func (m *TermMetadata) UnmarshalJSON(data []byte) error {
	var w termMetadataWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = TermMetadata{
		Favorite:     w.Favorite,
		Bookmark:     w.Bookmark,
		Difficulty:   w.Difficulty,
		Rating:       w.Rating,
		Notes:        w.Notes,
		ReadStatus:   w.ReadStatus,
		PersonalTags: w.PersonalTags,
	}
	if m.Difficulty == "" {
		m.Difficulty = DifficultyUnknown
	}
	if w.LastViewed != nil && *w.LastViewed != "" {
		ts, err := ParseTimestamp(*w.LastViewed)
		if err != nil {
			return fmt.Errorf("last_viewed: %w", err)
		}
		m.LastViewed = &ts
	}
	return nil
}

// MarshalJSON writes last_viewed as RFC 3339.
func (m TermMetadata) MarshalJSON() ([]byte, error) {
	w := termMetadataWire{
		Favorite:     m.Favorite,
		Bookmark:     m.Bookmark,
		Difficulty:   m.Difficulty,
		Rating:       m.Rating,
		Notes:        m.Notes,
		ReadStatus:   m.ReadStatus,
		PersonalTags: m.PersonalTags,
	}
	if m.LastViewed != nil {
		s := m.LastViewed.Format(time.RFC3339Nano)
		w.LastViewed = &s
	}
	return json.Marshal(w)
}

// TermDetail is the response of GET /api/term/:name.
type TermDetail struct {
	Term
	Meta TermMetadata `json:"meta"`
}

// MetaSummary is one row of GET /api/meta/all, used for ranking.
// HasNotes is a flag; the service does not send the notes text here.
type MetaSummary struct {
	Term       string     `json:"term"`
	Favorite   Flag       `json:"favorite"`
	Bookmark   Flag       `json:"bookmark"`
	Difficulty Difficulty `json:"difficulty"`
	Rating     int        `json:"rating"`
	HasNotes   Flag       `json:"notes"`
}

// Flag is a boolean that tolerates the service's 0/1 integer encoding.
type Flag bool

// MarshalJSON writes 1 or 0.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts true/false, numbers, null and strings. Non-numeric
// strings count as set when non-blank.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "":
		*f = false
		return nil
	case "true":
		*f = true
		return nil
	case "false":
		*f = false
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*f = n != 0
			return nil
		}
		*f = s != ""
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("flag: unexpected value %s", data)
	}
	*f = n != 0
	return nil
}

// ParseTimestamp parses RFC 3339 timestamps and the zone-less ISO form the
// service writes (interpreted as local time).
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999", "2006-01-02"} {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
