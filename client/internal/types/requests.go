package types

// ------------------------------
// Request Types
// ------------------------------

// MetaUpdate is a partial metadata write. Nil fields are not sent and keep
// their stored value on the service.
type MetaUpdate struct {
	Favorite   *Flag       `json:"favorite,omitempty"`
	Bookmark   *Flag       `json:"bookmark,omitempty"`
	Difficulty *Difficulty `json:"difficulty,omitempty"`
	Rating     *int        `json:"rating,omitempty"`
	Notes      *string     `json:"notes,omitempty"`
}

// Empty reports whether no field is set.
func (u MetaUpdate) Empty() bool {
	return u.Favorite == nil && u.Bookmark == nil && u.Difficulty == nil && u.Rating == nil && u.Notes == nil
}

// ApplyTo copies the set fields onto m.
func (u MetaUpdate) ApplyTo(m *TermMetadata) {
	if u.Favorite != nil {
		m.Favorite = *u.Favorite
	}
	if u.Bookmark != nil {
		m.Bookmark = *u.Bookmark
	}
	if u.Difficulty != nil {
		m.Difficulty = *u.Difficulty
	}
	if u.Rating != nil {
		m.Rating = *u.Rating
	}
	if u.Notes != nil {
		m.Notes = *u.Notes
	}
}

// SetMetaRequest is the body of POST /api/term/meta.
type SetMetaRequest struct {
	Term string `json:"term"`
	MetaUpdate
}

// FilterType selects a server-side metadata filter.
type FilterType string

const (
	FilterFavorites  FilterType = "favorites"
	FilterBookmarks  FilterType = "bookmarks"
	FilterNotes      FilterType = "notes"
	FilterDifficulty FilterType = "difficulty"
)

// Filter is a metadata filter; Param is only used with FilterDifficulty.
type Filter struct {
	Type  FilterType
	Param string
}

// Convenience constructors for MetaUpdate.

func FavoriteUpdate(v bool) MetaUpdate {
	f := Flag(v)
	return MetaUpdate{Favorite: &f}
}

func BookmarkUpdate(v bool) MetaUpdate {
	f := Flag(v)
	return MetaUpdate{Bookmark: &f}
}

func DifficultyUpdate(d Difficulty) MetaUpdate {
	return MetaUpdate{Difficulty: &d}
}

func RatingUpdate(r int) MetaUpdate {
	return MetaUpdate{Rating: &r}
}

func NotesUpdate(s string) MetaUpdate {
	return MetaUpdate{Notes: &s}
}
