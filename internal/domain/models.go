package domain

import "time"

// Country is one reference-data record: a stable identifier pair, display
// names and the flag image references used to render a question.
// Records are immutable once loaded.
type Country struct {
	Code    string `json:"code"` // ISO-3166 alpha-3
	CCA2    string `json:"cca2"` // ISO-3166 alpha-2
	Name    string `json:"name"` // common English name
	NameFR  string `json:"nameFr,omitempty"`
	FlagPNG string `json:"flagPng,omitempty"`
	FlagSVG string `json:"flagSvg"`
}

// DisplayName returns the name for the given language tag, falling back to
// the common English name when no translation is known.
func (c Country) DisplayName(lang string) string {
	if lang == "fr" && c.NameFR != "" {
		return c.NameFR
	}
	return c.Name
}

// Answer is the correct answer of a question: identifier, display name, the
// precomputed normalized form used for free-text comparison, and the flag
// image shown to the player.
type Answer struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Normalized string `json:"normalized"`
	Flag       string `json:"flag"`
}

// Choice is one candidate option of a multiple-choice question. The code is
// kept server-side so answers compare by identifier, never by display name.
type Choice struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Question is a single quiz item. Created at generation time and immutable
// thereafter. The correct answer is always a member of its own choices, and
// choice display names are pairwise distinct.
type Question struct {
	Answer  Answer   `json:"answer"`
	Choices []Choice `json:"choices"`
}

// GameMode selects how submitted answers are compared.
type GameMode string

const (
	// ModeChoice compares the selected choice's country code.
	ModeChoice GameMode = "choice"
	// ModeText compares normalized free text against the normalized answer.
	ModeText GameMode = "text"
)

// Valid reports whether the mode is one of the supported values.
func (m GameMode) Valid() bool {
	return m == ModeChoice || m == ModeText
}

// GameSummary is the raw outcome of a finished session, before the stats
// layer derives accuracy, duration and the win flag.
type GameSummary struct {
	Score      int
	Total      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// GameResult is the immutable record of one completed game. Written exactly
// once per finished session; owned by the result repository.
type GameResult struct {
	ID             int64     `json:"id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Accuracy       float64   `json:"accuracy"`  // percent
	TimeTaken      float64   `json:"timeTaken"` // seconds
	CompletedAt    time.Time `json:"completedAt"`
	Win            bool      `json:"win"`
}

// AggregateStats is derived on demand from the stored results. All fields
// are zero when the history is empty.
type AggregateStats struct {
	TotalGames      int     `json:"totalGames"`
	TotalWins       int     `json:"totalWins"`
	WinRate         float64 `json:"winRate"` // percent
	AverageScore    float64 `json:"averageScore"`
	AverageAccuracy float64 `json:"averageAccuracy"`
	AverageTime     float64 `json:"averageTime"`
	BestScore       int     `json:"bestScore"`
	BestAccuracy    float64 `json:"bestAccuracy"`
	FastestTime     float64 `json:"fastestTime"`
}

// StatsReport bundles the recent-games list (newest first) with the
// aggregates for a single stats read.
type StatsReport struct {
	RecentGames []GameResult   `json:"recentGames"`
	Aggregates  AggregateStats `json:"aggregates"`
}
