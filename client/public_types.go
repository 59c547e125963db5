package client

import "github.com/mavinms/prism-project/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Domain entities
	Term         = types.Term
	QA           = types.QA
	QuizItem     = types.QuizItem
	Subject      = types.Subject
	Difficulty   = types.Difficulty
	Flag         = types.Flag
	TermMetadata = types.TermMetadata
	TermDetail   = types.TermDetail
	MetaSummary  = types.MetaSummary

	// Requests
	MetaUpdate     = types.MetaUpdate
	SetMetaRequest = types.SetMetaRequest
	Filter         = types.Filter
	FilterType     = types.FilterType

	// Responses
	AckResponse   = types.AckResponse
	ErrorResponse = types.ErrorResponse
	MetaCounts    = types.MetaCounts
	StatsOverview = types.StatsOverview
)

const (
	DifficultyUnknown = types.DifficultyUnknown
	DifficultyEasy    = types.DifficultyEasy
	DifficultyMedium  = types.DifficultyMedium
	DifficultyHard    = types.DifficultyHard

	FilterFavorites  = types.FilterFavorites
	FilterBookmarks  = types.FilterBookmarks
	FilterNotes      = types.FilterNotes
	FilterDifficulty = types.FilterDifficulty

	MinRating = types.MinRating
	MaxRating = types.MaxRating
)

// Update constructors, one field group each.
var (
	FavoriteUpdate   = types.FavoriteUpdate
	BookmarkUpdate   = types.BookmarkUpdate
	DifficultyUpdate = types.DifficultyUpdate
	RatingUpdate     = types.RatingUpdate
	NotesUpdate      = types.NotesUpdate
)

// Validators shared with the service-facing layer.
var (
	ValidateDifficulty = types.ValidateDifficulty
	ValidateRating     = types.ValidateRating
	ValidateMetaUpdate = types.ValidateMetaUpdate
	ParseTimestamp     = types.ParseTimestamp
)
