package domain

import "errors"

var (
	// ErrDataUnavailable is returned when the reference-data source cannot be
	// reached or returns an unreadable response.
	ErrDataUnavailable = errors.New("country data unavailable")
	// ErrNoUsableData is returned when the source answered but the payload is
	// empty or filters down to nothing usable.
	ErrNoUsableData = errors.New("no usable country data")
	// ErrNotEnoughCountries indicates the pool cannot supply even one valid question.
	ErrNotEnoughCountries = errors.New("not enough countries to build a question")
	// ErrSessionNotFound is returned when no persisted session exists for a player.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrGameComplete is returned when submitting or advancing past the last question.
	ErrGameComplete = errors.New("game already complete")
	// ErrAlreadyAnswered is returned when the current question was answered
	// but not yet advanced past.
	ErrAlreadyAnswered = errors.New("current question already answered")
	// ErrNotAnswered is returned when advancing before the current question
	// was answered.
	ErrNotAnswered = errors.New("current question not answered")
	// ErrChoiceNotFound is returned when a submitted choice code is not among
	// the current question's choices.
	ErrChoiceNotFound = errors.New("choice not found")
	// ErrCorruptState indicates a persisted session that fails validation on restore.
	ErrCorruptState = errors.New("corrupt persisted session state")
	// ErrStaleWrite indicates a persisted write with an outdated sequence stamp.
	ErrStaleWrite = errors.New("stale session write rejected")
)
