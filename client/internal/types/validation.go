package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPClient is the subset of *http.Client the API layer needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ------------------------------
// Shared Errors
// ------------------------------

var (
	ErrNotFound          = errors.New("term not found")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidRating     = errors.New("rating must be between 0 and 5")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrEmptyTerm         = errors.New("term name is required")
	ErrEmptyUpdate       = errors.New("metadata update sets no field")
)

const (
	MinRating = 0
	MaxRating = 5
)

// ValidateDifficulty accepts the four known difficulty values.
func ValidateDifficulty(d Difficulty) error {
	switch d {
	case DifficultyUnknown, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidDifficulty, string(d))
}

// ValidateRating checks r is within [0, 5]. Zero is the cleared state.
func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: %d", ErrInvalidRating, r)
	}
	return nil
}

// ValidateTermName rejects blank names.
func ValidateTermName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyTerm
	}
	return nil
}

// ValidateMetaUpdate checks every set field.
func ValidateMetaUpdate(u MetaUpdate) error {
	if u.Empty() {
		return ErrEmptyUpdate
	}
	if u.Difficulty != nil {
		if err := ValidateDifficulty(*u.Difficulty); err != nil {
			return err
		}
	}
	if u.Rating != nil {
		if err := ValidateRating(*u.Rating); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFilter checks the filter type and that difficulty filters carry a valid param.
func ValidateFilter(f Filter) error {
	switch f.Type {
	case FilterFavorites, FilterBookmarks, FilterNotes:
		return nil
	case FilterDifficulty:
		d := Difficulty(f.Param)
		if !d.Known() {
			return fmt.Errorf("%w: difficulty filter needs easy, medium or hard", ErrInvalidFilter)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidFilter, string(f.Type))
}
