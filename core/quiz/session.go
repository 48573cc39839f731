package quiz

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/clinigoal/backoffice/core"
)

// Session states
type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateSubmitted State = "submitted"
)

var (
	nowFunc      = time.Now    // mockable
	tickInterval = time.Second // mockable
)

// Session drives a single user through a quiz:
// Idle → Active (Start) → Submitted (Submit), back to Idle via Reset from any
// state. Operations invoked in the wrong state are no-ops. The 1 Hz elapsed
// clock is owned by the session and is cancelled on every path out of Active.
type Session struct {
	mu           sync.Mutex
	state        State
	quiz         Quiz
	elapsed      int // whole seconds since Start
	answers      map[string]string    // question ID -> selected option ID
	times        map[string]int       // question ID -> whole seconds spent deciding
	consideredAt map[string]time.Time // question ID -> start of consideration
	results      *Results
	stop         chan struct{}

	tracker *Tracker
	logger  core.Logger
}

func NewSession(tracker *Tracker, logger core.Logger) *Session {
	return &Session{state: StateIdle, tracker: tracker, logger: logger}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Results returns the terminal results record, or nil before submission.
func (s *Session) Results() *Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Start begins a session for the given quiz definition. Questions and options
// lacking identifiers are assigned synthetic ones (q{i}, q{i}_opt{j}) so that
// answer-tracking keys are stable.
func (s *Session) Start(quiz Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i)
		}
		for j := range q.Options {
			if q.Options[j].ID == "" {
				q.Options[j].ID = fmt.Sprintf("q%d_opt%d", i, j)
			}
		}
	}

	s.quiz = quiz
	s.elapsed = 0
	s.answers = make(map[string]string)
	s.times = make(map[string]int)
	s.consideredAt = make(map[string]time.Time)
	s.results = nil
	s.state = StateActive

	s.stop = make(chan struct{})
	go s.tick(s.stop)
}

func (s *Session) tick(stop <-chan struct{}) {
	t := time.NewTicker(tickInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.mu.Lock()
			// a tick may have been waiting on the lock while Submit or Reset
			// ran; the clock only counts while the session is active.
			if s.state == StateActive {
				s.elapsed++
			}
			s.mu.Unlock()
		}
	}
}

// SelectAnswer records the selection for a question, last write wins. Time
// spent deciding is tracked from the question's previous selection: the first
// selection for a question starts its clock, any later one (same option or
// not) stores the whole seconds elapsed since and restarts it.
func (s *Session) SelectAnswer(questionID, optionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return
	}

	now := nowFunc()
	if startedAt, ok := s.consideredAt[questionID]; ok {
		secs := int(now.Sub(startedAt) / time.Second)
		if secs < 0 {
			secs = 0
		}
		s.times[questionID] = secs
	}
	s.answers[questionID] = optionID
	s.consideredAt[questionID] = now
}

// Submit stops the clock, scores the session and transitions to Submitted.
// On a pass, the quiz is recorded in the persisted completed set exactly once.
// Submitting a non-active session is a no-op returning any prior results.
func (s *Session) Submit() *Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return s.results
	}
	s.stopClock()

	total := len(s.quiz.Questions)
	correct := 0
	rows := make([]QuestionResult, 0, total)
	for _, q := range s.quiz.Questions {
		selected := s.answers[q.ID]

		var correctID string
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correctID = opt.ID // first flagged option wins
				break
			}
		}

		ok := selected != "" && selected == correctID
		if ok {
			correct++
		}
		rows = append(rows, QuestionResult{
			QuestionID:       q.ID,
			Text:             q.Text,
			SelectedOptionID: selected,
			CorrectOptionID:  correctID,
			Correct:          ok,
			TimeSpent:        s.times[q.ID],
		})
	}

	// a quiz without questions scores 0, not a division error
	score := 0
	if total > 0 {
		score = int(math.Round(100 * float64(correct) / float64(total)))
	}
	passing := s.quiz.PassingScore
	if passing == 0 {
		passing = DefaultPassingScore
	}
	passed := score >= passing

	s.results = &Results{
		QuizID:         s.quiz.ID,
		Score:          score,
		Passed:         passed,
		TotalQuestions: total,
		CorrectAnswers: correct,
		TimeSpent:      s.elapsed,
		FormattedTime:  formatSeconds(s.elapsed),
		Questions:      rows,
	}
	s.state = StateSubmitted

	if passed && s.tracker != nil {
		s.tracker.MarkQuizPassed(s.quiz.ID)
	}
	return s.results
}

// Reset abandons the session from any state: the clock is cancelled and all
// session fields are discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopClock()
	s.state = StateIdle
	s.quiz = Quiz{}
	s.elapsed = 0
	s.answers = nil
	s.times = nil
	s.consideredAt = nil
	s.results = nil
}

// stopClock cancels the ticking goroutine; callers must hold s.mu.
func (s *Session) stopClock() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func formatSeconds(secs int) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
