package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"flag-quiz-service/internal/domain"
)

// SessionStore persists serialized session state under a per-player slot.
// Save carries a monotonic sequence stamp; stores reject writes whose stamp
// is not greater than the stored one with domain.ErrStaleWrite. Load returns
// domain.ErrSessionNotFound when the slot is empty.
type SessionStore interface {
	Save(ctx context.Context, playerID string, state []byte, seq uint64) error
	Load(ctx context.Context, playerID string) ([]byte, error)
	Delete(ctx context.Context, playerID string) error
}

// ResetMode selects what a reset rebuilds the question list from.
type ResetMode string

const (
	// ResetFull regenerates an entirely new question list.
	ResetFull ResetMode = "full"
	// ResetIncorrectOnly replays only the questions answered wrong.
	ResetIncorrectOnly ResetMode = "incorrect-only"
)

// sessionStateVersion tags the persisted envelope so older or mangled
// payloads are detected instead of silently restored.
const sessionStateVersion = 1

type sessionEnvelope struct {
	Version   int               `json:"v"`
	Mode      domain.GameMode   `json:"mode"`
	Questions []domain.Question `json:"questions"`
	Current   int               `json:"current"`
	Right     []domain.Question `json:"right"`
	Wrong     []domain.Question `json:"wrong"`
	Answered  bool              `json:"answered"`
	StartedAt time.Time         `json:"startedAt"`
	Seq       uint64            `json:"seq"`
}

// Session is the per-player state machine: an ordered question list, a
// cursor, and the right/wrong partitions of answered questions. Submitting
// an answer does not advance the cursor; advancing is a separate operation
// so the caller can show feedback first. Every mutation persists through the
// store before returning.
type Session struct {
	mu        sync.Mutex
	playerID  string
	mode      domain.GameMode
	questions []domain.Question
	current   int
	right     []domain.Question
	wrong     []domain.Question
	answered  bool
	startedAt time.Time
	seq       uint64

	store SessionStore
	now   func() time.Time
}

func newSession(playerID string, mode domain.GameMode, questions []domain.Question, store SessionStore, now func() time.Time) *Session {
	return &Session{
		playerID:  playerID,
		mode:      mode,
		questions: questions,
		right:     []domain.Question{},
		wrong:     []domain.Question{},
		startedAt: now(),
		store:     store,
		now:       now,
	}
}

// restoreSession rebuilds a session from its persisted envelope, validating
// the structural invariants. Any violation yields domain.ErrCorruptState.
func restoreSession(playerID string, data []byte, store SessionStore, now func() time.Time) (*Session, error) {
	var env sessionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	session := &Session{
		playerID:  playerID,
		mode:      env.Mode,
		questions: env.Questions,
		current:   env.Current,
		right:     env.Right,
		wrong:     env.Wrong,
		answered:  env.Answered,
		startedAt: env.StartedAt,
		seq:       env.Seq,
		store:     store,
		now:       now,
	}
	if session.right == nil {
		session.right = []domain.Question{}
	}
	if session.wrong == nil {
		session.wrong = []domain.Question{}
	}
	return session, nil
}

func (e *sessionEnvelope) validate() error {
	if e.Version != sessionStateVersion {
		return fmt.Errorf("%w: unknown state version %d", domain.ErrCorruptState, e.Version)
	}
	if !e.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrCorruptState, e.Mode)
	}
	if e.Current < 0 || e.Current > len(e.Questions) {
		return fmt.Errorf("%w: cursor %d out of range", domain.ErrCorruptState, e.Current)
	}
	want := e.Current
	if e.Answered {
		want++
	}
	if len(e.Right)+len(e.Wrong) != want {
		return fmt.Errorf("%w: answered partitions do not sum to cursor", domain.ErrCorruptState)
	}
	if e.StartedAt.IsZero() {
		return fmt.Errorf("%w: missing start time", domain.ErrCorruptState)
	}
	for _, q := range e.Questions {
		if q.Answer.Code == "" || len(q.Choices) == 0 {
			return fmt.Errorf("%w: malformed question", domain.ErrCorruptState)
		}
	}
	return nil
}

func (s *Session) marshalLocked() ([]byte, error) {
	return json.Marshal(sessionEnvelope{
		Version:   sessionStateVersion,
		Mode:      s.mode,
		Questions: s.questions,
		Current:   s.current,
		Right:     s.right,
		Wrong:     s.wrong,
		Answered:  s.answered,
		StartedAt: s.startedAt,
		Seq:       s.seq,
	})
}

// persistLocked writes the current state through the store. The sequence
// stamp increments on every write so stale writers lose.
func (s *Session) persistLocked(ctx context.Context) error {
	s.seq++
	data, err := s.marshalLocked()
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	return s.store.Save(ctx, s.playerID, data, s.seq)
}

func (s *Session) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

// Mode returns the comparison mode the session was created with.
func (s *Session) Mode() domain.GameMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Current returns the question under the cursor, or false when the game is complete.
func (s *Session) Current() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.current], true
}

// SubmitAnswer checks input against the current question and appends it to
// the right or wrong partition. In choice mode the input is the selected
// choice's country code; in text mode it is raw text compared through
// Normalize. The cursor does not move.
func (s *Session) SubmitAnswer(ctx context.Context, input string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current >= len(s.questions) {
		return false, domain.ErrGameComplete
	}
	if s.answered {
		return false, domain.ErrAlreadyAnswered
	}

	question := s.questions[s.current]
	var correct bool
	switch s.mode {
	case domain.ModeText:
		correct = Normalize(input) == question.Answer.Normalized
	default:
		found := false
		for _, choice := range question.Choices {
			if choice.Code == input {
				found = true
				break
			}
		}
		if !found {
			return false, domain.ErrChoiceNotFound
		}
		correct = input == question.Answer.Code
	}

	if correct {
		s.right = append(s.right, question)
	} else {
		s.wrong = append(s.wrong, question)
	}
	s.answered = true

	if err := s.persistLocked(ctx); err != nil {
		return correct, err
	}
	return correct, nil
}

// Advance moves the cursor past the answered question and reports whether
// the session just completed.
func (s *Session) Advance(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current >= len(s.questions) {
		return false, domain.ErrGameComplete
	}
	if !s.answered {
		return false, domain.ErrNotAnswered
	}
	s.current++
	s.answered = false

	completed := s.current == len(s.questions)
	if err := s.persistLocked(ctx); err != nil {
		return completed, err
	}
	return completed, nil
}

// resetTo swaps in a new question list and clears all progress.
func (s *Session) resetTo(ctx context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = questions
	s.current = 0
	s.right = []domain.Question{}
	s.wrong = []domain.Question{}
	s.answered = false
	s.startedAt = s.now()
	return s.persistLocked(ctx)
}

// wrongQuestions snapshots the wrong partition for an incorrect-only reset.
func (s *Session) wrongQuestions() []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Question, len(s.wrong))
	copy(out, s.wrong)
	return out
}

// Summary captures the final counts and elapsed time of a completed session.
func (s *Session) Summary() domain.GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.GameSummary{
		Score:      len(s.right),
		Total:      len(s.questions),
		StartedAt:  s.startedAt,
		FinishedAt: s.now(),
	}
}

// View is the transport-facing snapshot of a session.
type View struct {
	Mode      domain.GameMode  `json:"mode"`
	Current   int              `json:"current"`
	Total     int              `json:"total"`
	Score     int              `json:"score"`
	Completed bool             `json:"completed"`
	Question  *domain.Question `json:"question,omitempty"`
}

// View snapshots the session for clients.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := View{
		Mode:      s.mode,
		Current:   s.current,
		Total:     len(s.questions),
		Score:     len(s.right),
		Completed: s.current >= len(s.questions),
	}
	if !view.Completed {
		q := s.questions[s.current]
		view.Question = &q
	}
	return view
}
