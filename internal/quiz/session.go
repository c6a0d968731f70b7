package quiz

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tmarques/flashdeck/internal/errors"
	"github.com/tmarques/flashdeck/internal/logger"
	"github.com/tmarques/flashdeck/internal/models"
	"github.com/tmarques/flashdeck/internal/store"
)

// Mode selects how answers are judged.
type Mode string

const (
	// ModeRecall presents question/answer cards; the player self-reports
	// whether their recall was correct.
	ModeRecall Mode = "recall"
	// ModeChoice presents the card's options; the chosen option is graded
	// against the stored answer.
	ModeChoice Mode = "choice"
)

// Session drives one quiz over a fixed card sequence: one question at a time,
// a countdown per question, and a leaderboard write on completion. A session
// is in exactly one of two states: awaiting an answer, or completed.
//
// The session owns at most one live countdown at any moment. Every transition
// away from the current question (manual answer, timeout, teardown) stops the
// countdown before anything else happens, so a stale tick can never fire into
// the next question or a torn-down session.
type Session struct {
	ID string

	mu         sync.Mutex
	mode       Mode
	cards      []models.Flashcard
	playerName string

	index      int
	timeLeft   int
	score      int
	correct    int
	incorrect  int
	answered   int
	showAnswer bool
	completed  bool
	closed     bool

	// choice mode: input is locked between choosing and advancing
	locked      bool
	lastChoice  string
	lastCorrect bool

	questionSeconds int
	points          int
	tickInterval    time.Duration
	advanceDelay    time.Duration

	stop       chan struct{}
	liveTimers int32
	advance    *time.Timer

	records *store.Records
	log     *logger.Logger
}

// Snapshot is a point-in-time view of a session, safe to serialize.
type Snapshot struct {
	ID          string   `json:"id"`
	Mode        Mode     `json:"mode"`
	Index       int      `json:"index"`
	Total       int      `json:"total"`
	Question    string   `json:"question,omitempty"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	TimeLeft    int      `json:"time_left"`
	Score       int      `json:"score"`
	Correct     int      `json:"correct"`
	Incorrect   int      `json:"incorrect"`
	Answered    int      `json:"answered"`
	Accuracy    float64  `json:"accuracy"`
	ShowAnswer  bool     `json:"show_answer"`
	Completed   bool     `json:"completed"`
	Locked      bool     `json:"locked,omitempty"`
	LastChoice  string   `json:"last_choice,omitempty"`
	LastCorrect bool     `json:"last_correct,omitempty"`
	PlayerName  string   `json:"player_name"`
}

func newSession(id string, mode Mode, cards []models.Flashcard, playerName string, cfg Config, records *store.Records) *Session {
	return &Session{
		ID:              id,
		mode:            mode,
		cards:           cards,
		playerName:      playerName,
		timeLeft:        cfg.QuestionSeconds,
		questionSeconds: cfg.QuestionSeconds,
		points:          cfg.PointsPerCorrect,
		tickInterval:    cfg.TickInterval,
		advanceDelay:    cfg.AdvanceDelay,
		records:         records,
		log:             logger.Default().WithPrefix("quiz").WithField("session_id", id),
	}
}

// begin starts the first question's countdown.
func (s *Session) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTimerLocked()
}

// Submit records a self-reported judgment for the current question in recall
// mode. A timeout reaches the same path with correct=false.
func (s *Session) Submit(correct bool) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeRecall {
		return Snapshot{}, errors.NewValidationError("mode", "multiple-choice sessions grade answers automatically; use choice")
	}
	if err := s.answerableLocked(); err != nil {
		return Snapshot{}, err
	}

	s.gradeLocked(correct)
	s.transitionLocked()
	return s.snapshotLocked(), nil
}

// Choose grades the chosen option against the card's answer in choice mode.
// Input is then locked for the advance delay before the next question.
func (s *Session) Choose(option string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeChoice {
		return Snapshot{}, errors.NewValidationError("mode", "recall sessions are self-graded; use answer")
	}
	if err := s.answerableLocked(); err != nil {
		return Snapshot{}, err
	}

	s.stopTimerLocked()
	s.locked = true
	s.lastChoice = option
	s.lastCorrect = option == s.cards[s.index].Answer
	s.gradeLocked(s.lastCorrect)
	s.scheduleAdvanceLocked()
	return s.snapshotLocked(), nil
}

// ToggleReveal flips the answer-reveal flag. It never touches scoring.
func (s *Session) ToggleReveal() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeRecall {
		return Snapshot{}, errors.NewValidationError("mode", "multiple-choice sessions reveal the answer after a choice")
	}
	if err := s.answerableLocked(); err != nil {
		return Snapshot{}, err
	}

	s.showAnswer = !s.showAnswer
	return s.snapshotLocked(), nil
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Completed reports whether the session has reached its terminal state.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// LiveTimers reports how many countdown goroutines currently exist for this
// session. It is never expected to exceed one.
func (s *Session) LiveTimers() int {
	return int(atomic.LoadInt32(&s.liveTimers))
}

// Close tears the session down, cancelling the countdown and any pending
// advance. Closing twice is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.stopAdvanceLocked()
}

func (s *Session) answerableLocked() error {
	if s.closed {
		return errors.NewConflictError("quiz session is closed")
	}
	if s.completed {
		return errors.NewConflictError("quiz session is already completed")
	}
	if s.locked {
		return errors.NewConflictError("answer already submitted for this question")
	}
	return nil
}

func (s *Session) gradeLocked(correct bool) {
	s.answered++
	if correct {
		s.score += s.points
		s.correct++
	} else {
		s.incorrect++
	}
}

// transitionLocked leaves the current question immediately: either the
// session finishes or the next question starts with a fresh countdown.
func (s *Session) transitionLocked() {
	if s.index == len(s.cards)-1 {
		s.finishLocked()
		return
	}
	s.nextQuestionLocked()
}

func (s *Session) nextQuestionLocked() {
	s.index++
	s.timeLeft = s.questionSeconds
	s.showAnswer = false
	s.locked = false
	s.lastChoice = ""
	s.lastCorrect = false
	s.startTimerLocked()
}

func (s *Session) finishLocked() {
	s.completed = true
	s.stopTimerLocked()
	s.stopAdvanceLocked()

	entry := models.LeaderboardEntry{Name: s.playerName, Score: s.score}
	if _, err := s.records.AppendLeaderboard(context.Background(), entry); err != nil {
		s.log.Error("failed to record leaderboard entry: %v", err)
	}
	s.log.Info("quiz completed: score=%d, correct=%d, incorrect=%d", s.score, s.correct, s.incorrect)
}

// scheduleAdvanceLocked defers the transition so the UI can show the graded
// choice before the next question appears.
func (s *Session) scheduleAdvanceLocked() {
	s.stopAdvanceLocked()
	if s.advanceDelay <= 0 {
		s.transitionLocked()
		return
	}
	s.advance = time.AfterFunc(s.advanceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.completed {
			return
		}
		s.transitionLocked()
	})
}

func (s *Session) startTimerLocked() {
	s.stopTimerLocked()
	stop := make(chan struct{})
	s.stop = stop
	go s.countdown(stop)
}

func (s *Session) stopTimerLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *Session) stopAdvanceLocked() {
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

// countdown decrements timeLeft once per tick until it is stopped or the
// question times out. The stop channel identifies the question this countdown
// belongs to; once the session moves on, the goroutine exits.
func (s *Session) countdown(stop chan struct{}) {
	atomic.AddInt32(&s.liveTimers, 1)
	defer atomic.AddInt32(&s.liveTimers, -1)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.tick(stop) {
				return
			}
		}
	}
}

func (s *Session) tick(stop chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != stop || s.closed || s.completed {
		return false
	}

	s.timeLeft--
	if s.timeLeft > 0 {
		return true
	}

	// Out of time: equivalent to an incorrect submission.
	s.log.Debug("question timed out: index=%d", s.index)
	s.stopTimerLocked()
	if s.mode == ModeChoice {
		s.locked = true
		s.lastChoice = ""
		s.lastCorrect = false
		s.gradeLocked(false)
		s.scheduleAdvanceLocked()
	} else {
		s.gradeLocked(false)
		s.transitionLocked()
	}
	return false
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		Mode:        s.mode,
		Index:       s.index,
		Total:       len(s.cards),
		TimeLeft:    s.timeLeft,
		Score:       s.score,
		Correct:     s.correct,
		Incorrect:   s.incorrect,
		Answered:    s.answered,
		Accuracy:    accuracy(s.correct, s.answered),
		ShowAnswer:  s.showAnswer,
		Completed:   s.completed,
		Locked:      s.locked,
		LastChoice:  s.lastChoice,
		LastCorrect: s.lastCorrect,
		PlayerName:  s.playerName,
	}
	if !s.completed {
		card := s.cards[s.index]
		snap.Question = card.Question
		snap.Options = card.Options
		if s.showAnswer || (s.mode == ModeChoice && s.locked) {
			snap.Answer = card.Answer
		}
	}
	return snap
}

func accuracy(correct, answered int) float64 {
	if answered == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(answered)*100*100) / 100
}
