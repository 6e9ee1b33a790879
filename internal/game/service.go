package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"flag-quiz-service/internal/domain"
)

// Source supplies the country reference data (remote API, bundled dataset,
// or flag-attribute file).
type Source interface {
	Countries(ctx context.Context) ([]domain.Country, error)
}

// ResultRecorder receives the summary of a completed session and returns the
// stored record.
type ResultRecorder interface {
	RecordCompletedGame(ctx context.Context, summary domain.GameSummary) (domain.GameResult, error)
}

// Service owns the game use cases: one active session per player, resumed
// from the store across reconnects and rebuilt on corruption.
type Service struct {
	source        Source
	gen           *Generator
	store         SessionStore
	results       ResultRecorder
	questionCount int
	choiceCount   int
	now           func() time.Time

	mu   sync.Mutex
	live map[string]*Session
}

func NewService(source Source, gen *Generator, store SessionStore, results ResultRecorder, questionCount, choiceCount int) *Service {
	if questionCount <= 0 {
		questionCount = 10
	}
	if choiceCount < 2 {
		choiceCount = 6
	}
	return &Service{
		source:        source,
		gen:           gen,
		store:         store,
		results:       results,
		questionCount: questionCount,
		choiceCount:   choiceCount,
		now:           time.Now,
		live:          make(map[string]*Session),
	}
}

// Resume returns the player's session view, restoring persisted state or
// creating a fresh game. A corrupt persisted state is logged and replaced
// with a fresh game rather than surfaced. Requesting a different mode than
// the stored one starts a new game in that mode.
func (s *Service) Resume(ctx context.Context, playerID string, mode domain.GameMode) (View, error) {
	if !mode.Valid() {
		mode = domain.ModeChoice
	}

	session, err := s.session(ctx, playerID)
	switch {
	case err == nil:
		if session.Mode() == mode {
			return session.View(), nil
		}
		// Mode switch discards the old game.
	case errors.Is(err, domain.ErrSessionNotFound):
		// First load; fall through to a fresh game.
	case errors.Is(err, domain.ErrCorruptState):
		log.Printf("game: corrupt session for player %s, starting fresh: %v", playerID, err)
	default:
		return View{}, err
	}

	session, err = s.freshSession(ctx, playerID, mode)
	if err != nil {
		return View{}, err
	}
	return session.View(), nil
}

// SubmitAnswer records an answer for the player's current question and
// reports correctness. The cursor stays put until Advance.
func (s *Service) SubmitAnswer(ctx context.Context, playerID, input string) (bool, View, error) {
	session, err := s.session(ctx, playerID)
	if err != nil {
		return false, View{}, err
	}
	correct, err := session.SubmitAnswer(ctx, input)
	if err != nil {
		return false, View{}, err
	}
	return correct, session.View(), nil
}

// Advance moves the player past the answered question. When this completes
// the game, the session summary is recorded and the stored result returned.
func (s *Service) Advance(ctx context.Context, playerID string) (View, *domain.GameResult, error) {
	session, err := s.session(ctx, playerID)
	if err != nil {
		return View{}, nil, err
	}
	completed, err := session.Advance(ctx)
	if err != nil {
		return View{}, nil, err
	}
	if !completed {
		return session.View(), nil, nil
	}

	result, err := s.results.RecordCompletedGame(ctx, session.Summary())
	if err != nil {
		return session.View(), nil, err
	}
	return session.View(), &result, nil
}

// Reset rebuilds the player's question list: ResetFull regenerates from the
// reference pool, ResetIncorrectOnly replays the questions answered wrong.
// Both clear progress and restart the clock.
func (s *Service) Reset(ctx context.Context, playerID string, mode ResetMode) (View, error) {
	session, err := s.session(ctx, playerID)
	if err != nil {
		return View{}, err
	}

	var questions []domain.Question
	switch mode {
	case ResetIncorrectOnly:
		questions = session.wrongQuestions()
		if len(questions) == 0 {
			return View{}, domain.ErrNotEnoughCountries
		}
	default:
		questions, err = s.generate(ctx)
		if err != nil {
			return View{}, err
		}
	}

	if err := session.resetTo(ctx, questions); err != nil {
		return View{}, err
	}
	return session.View(), nil
}

// session resolves the live session for a player, restoring from the store
// when the process does not hold one yet.
func (s *Service) session(ctx context.Context, playerID string) (*Session, error) {
	s.mu.Lock()
	if session, ok := s.live[playerID]; ok {
		s.mu.Unlock()
		return session, nil
	}
	s.mu.Unlock()

	data, err := s.store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	session, err := restoreSession(playerID, data, s.store, s.now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.live[playerID]; ok {
		return existing, nil
	}
	s.live[playerID] = session
	return session, nil
}

func (s *Service) freshSession(ctx context.Context, playerID string, mode domain.GameMode) (*Session, error) {
	questions, err := s.generate(ctx)
	if err != nil {
		return nil, err
	}
	// Clear the slot so the new session's sequence restarts cleanly; stale
	// state left by a discarded or corrupt game would otherwise outrank it.
	if err := s.store.Delete(ctx, playerID); err != nil {
		return nil, err
	}
	session := newSession(playerID, mode, questions, s.store, s.now)
	if err := session.persist(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[playerID] = session
	return session, nil
}

func (s *Service) generate(ctx context.Context) ([]domain.Question, error) {
	pool, err := s.source.Countries(ctx)
	if err != nil {
		return nil, err
	}
	distractors := s.choiceCount - 1
	if len(pool)-1 < distractors {
		// Small pools get fewer distractors instead of failing.
		distractors = len(pool) - 1
	}
	if distractors < 0 {
		return nil, domain.ErrNotEnoughCountries
	}
	return s.gen.Generate(pool, s.questionCount, distractors)
}
