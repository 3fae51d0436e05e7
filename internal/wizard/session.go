package wizard

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nagame-dev/aiready/internal/quizbank"
	"github.com/nagame-dev/aiready/internal/scoring"
)

// SubmissionState tracks whether this session's response reached the row
// store. A recorded success disables resubmission; a failure re-enables it.
type SubmissionState string

const (
	SubmissionNone      SubmissionState = "none"
	SubmissionSucceeded SubmissionState = "succeeded"
	SubmissionFailed    SubmissionState = "failed"
)

const (
	warnIncomplete       = "未回答の質問があります。戻ってすべて回答してください。"
	warnIndustryChoice   = "業種を選択してください。"
	warnIndustryText     = "「その他」を選んだ場合は業種を入力してください。"
	warnWrongStep        = "この操作は現在の画面では実行できません。"
	warnAlreadySubmitted = "この回答はすでに送信されています。"
)

// Session is one respondent's mutable state bundle. It is owned by a
// single respondent; the embedded mutex serializes interleaved requests
// for the same token.
type Session struct {
	mu sync.Mutex

	Token     string
	ClientID  string
	Referrer  string
	UserAgent string
	CreatedAt time.Time

	Step           Step
	Cursor         int
	Answers        scoring.AnswerSet
	Region         string
	Industry       string
	IndustryCustom string
	Submission     SubmissionState

	questions []quizbank.Question
}

func newSession(token string, questions []quizbank.Question, referrer, userAgent string, now time.Time) *Session {
	return &Session{
		Token:      token,
		ClientID:   uuid.NewString(),
		Referrer:   referrer,
		UserAgent:  userAgent,
		CreatedAt:  now,
		Step:       StepIndustry,
		Answers:    scoring.AnswerSet{},
		Submission: SubmissionNone,
		questions:  questions,
	}
}

// Apply runs one wizard transition. It never returns an error: blocked
// transitions leave the state untouched and set Outcome.Warning.
func (s *Session) Apply(ev Event) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case EventReset:
		s.resetLocked()
		return Outcome{}
	case EventSelectIndustry:
		return s.selectIndustryLocked(ev)
	case EventAnswerBack:
		return s.answerBackLocked(ev)
	case EventAnswerNext:
		return s.answerNextLocked(ev)
	case EventEditAnswers:
		if s.Step != StepReady && s.Step != StepResults {
			return Outcome{Warning: warnWrongStep}
		}
		s.Step = StepQuestions
		return Outcome{}
	case EventViewResults:
		if s.Step != StepReady {
			return Outcome{Warning: warnWrongStep}
		}
		return s.enterResultsLocked()
	case EventComplete:
		if s.Step != StepResults {
			return Outcome{Warning: warnWrongStep}
		}
		s.Step = StepCompleted
		return Outcome{}
	default:
		return Outcome{Warning: warnWrongStep}
	}
}

func (s *Session) selectIndustryLocked(ev Event) Outcome {
	if s.Step != StepIndustry {
		return Outcome{Warning: warnWrongStep}
	}
	if !validIndustry(ev.Industry) {
		return Outcome{Warning: warnIndustryChoice}
	}
	custom := strings.TrimSpace(ev.IndustryCustom)
	if ev.Industry == IndustryOther && custom == "" {
		return Outcome{Warning: warnIndustryText}
	}
	region := ev.Region
	if !validRegion(region) {
		region = DefaultRegion
	}
	s.Region = region
	s.Industry = ev.Industry
	s.IndustryCustom = custom
	s.Step = StepQuestions
	s.Cursor = 0
	return Outcome{}
}

func (s *Session) answerBackLocked(ev Event) Outcome {
	if s.Step != StepQuestions {
		return Outcome{Warning: warnWrongStep}
	}
	s.storeAnswerLocked(ev.Value)
	if s.Cursor > 0 {
		s.Cursor--
	}
	return Outcome{}
}

func (s *Session) answerNextLocked(ev Event) Outcome {
	if s.Step != StepQuestions {
		return Outcome{Warning: warnWrongStep}
	}
	s.storeAnswerLocked(ev.Value)
	if s.Cursor+1 < len(s.questions) {
		s.Cursor++
		return Outcome{}
	}
	if !s.Answers.Complete() {
		return Outcome{Warning: warnIncomplete}
	}
	s.Step = StepReady
	return Outcome{}
}

func (s *Session) storeAnswerLocked(value int) {
	if value < 0 {
		value = 0
	} else if value > 100 {
		value = 100
	}
	if s.Cursor < len(s.questions) {
		s.Answers[s.questions[s.Cursor].ID] = value
	}
}

// enterResultsLocked fails closed: reaching results with an incomplete
// answer set redirects back to the first unanswered question.
func (s *Session) enterResultsLocked() Outcome {
	if missing := s.Answers.Missing(); len(missing) > 0 {
		err := &scoring.IncompleteAnswersError{Missing: missing}
		s.Step = StepQuestions
		s.Cursor = err.First()
		return Outcome{Warning: warnIncomplete}
	}
	s.Step = StepResults
	return Outcome{}
}

// CanSubmit reports whether the ready gate allows a submission attempt.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Step == StepReady && s.Submission != SubmissionSucceeded
}

// RecordSubmission stores the submission outcome and advances to results
// regardless: a persistence failure must never block the respondent from
// seeing their own scores.
func (s *Session) RecordSubmission(err error) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Step != StepReady {
		return Outcome{Warning: warnWrongStep}
	}
	if s.Submission == SubmissionSucceeded {
		return Outcome{Warning: warnAlreadySubmitted}
	}
	out := s.enterResultsLocked()
	if err != nil {
		s.Submission = SubmissionFailed
		if out.Warning == "" {
			out.Warning = fmt.Sprintf("送信に失敗しました: %v", err)
		}
		return out
	}
	s.Submission = SubmissionSucceeded
	return out
}

// Questions returns the bank this session pages through.
func (s *Session) Questions() []quizbank.Question {
	return s.questions
}

// Snapshot returns an independent copy of the submission-relevant state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	industry := s.Industry
	if industry == IndustryOther && s.IndustryCustom != "" {
		industry = s.IndustryCustom
	}
	return SessionSnapshot{
		Token:      s.Token,
		ClientID:   s.ClientID,
		Referrer:   s.Referrer,
		UserAgent:  s.UserAgent,
		Step:       s.Step,
		Cursor:     s.Cursor,
		Answers:    s.Answers.Clone(),
		Region:     s.Region,
		Industry:   industry,
		Submission: s.Submission,
	}
}

// SessionSnapshot is a read-only copy handed to rendering and submission.
type SessionSnapshot struct {
	Token      string
	ClientID   string
	Referrer   string
	UserAgent  string
	Step       Step
	Cursor     int
	Answers    scoring.AnswerSet
	Region     string
	Industry   string
	Submission SubmissionState
}

func (s *Session) resetLocked() {
	s.ClientID = uuid.NewString()
	s.Step = StepIndustry
	s.Cursor = 0
	s.Answers = scoring.AnswerSet{}
	s.Region = ""
	s.Industry = ""
	s.IndustryCustom = ""
	s.Submission = SubmissionNone
}
