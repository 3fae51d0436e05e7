package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// QuestionCount is the number of slider answers a complete set holds.
const QuestionCount = 10

// AdoptionQuestionID is the one question whose raw value is the adoption
// score. It is not averaged with the others.
const AdoptionQuestionID = "q4"

// AnswerSet maps question id ("q1".."q10") to a slider value in [0,100].
// A missing key means the question is unanswered.
type AnswerSet map[string]int

// QuestionID returns the canonical id for the n-th question (1-based).
func QuestionID(n int) string {
	return fmt.Sprintf("q%d", n)
}

// Missing returns the ids of unanswered questions in canonical order.
func (a AnswerSet) Missing() []string {
	var missing []string
	for i := 1; i <= QuestionCount; i++ {
		if _, ok := a[QuestionID(i)]; !ok {
			missing = append(missing, QuestionID(i))
		}
	}
	return missing
}

// Complete reports whether all ten questions are answered.
func (a AnswerSet) Complete() bool {
	return len(a.Missing()) == 0
}

// Clone returns an independent copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	cp := make(AnswerSet, len(a))
	for k, v := range a {
		cp[k] = v
	}
	return cp
}

// Ordered returns the ten answer values in question order. It requires a
// complete set.
func (a AnswerSet) Ordered() ([]int, error) {
	if missing := a.Missing(); len(missing) > 0 {
		return nil, &IncompleteAnswersError{Missing: missing}
	}
	values := make([]int, 0, QuestionCount)
	for i := 1; i <= QuestionCount; i++ {
		values = append(values, a[QuestionID(i)])
	}
	return values, nil
}

// IncompleteAnswersError reports which questions are still unanswered when
// scoring is requested too early.
type IncompleteAnswersError struct {
	Missing []string
}

func (e *IncompleteAnswersError) Error() string {
	sort.Strings(e.Missing)
	return fmt.Sprintf("incomplete answers: %s unanswered", strings.Join(e.Missing, ", "))
}

// First returns the lowest-numbered unanswered question index (0-based),
// for redirecting the wizard back to it.
func (e *IncompleteAnswersError) First() int {
	for i := 1; i <= QuestionCount; i++ {
		for _, id := range e.Missing {
			if id == QuestionID(i) {
				return i - 1
			}
		}
	}
	return 0
}

// Result holds the derived metrics for one complete answer set.
type Result struct {
	Readiness     int           `json:"readiness"`
	Adoption      int           `json:"adoption"`
	ReductionPct  float64       `json:"reduction_pct"`
	ReadinessBand ReadinessBand `json:"readiness_band"`
	AdoptionBand  AdoptionBand  `json:"adoption_band"`
}

// ComputeReadiness averages the ten slider answers and rounds half away
// from zero. It fails with IncompleteAnswersError unless all ten are set.
func ComputeReadiness(a AnswerSet) (int, error) {
	values, err := a.Ordered()
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values)))), nil
}

// ComputeAdoption returns the raw value of the designated adoption question,
// or zero when it is unanswered. Zero-filling instead of failing keeps the
// adoption metric usable on partial renders.
func ComputeAdoption(a AnswerSet) int {
	return a[AdoptionQuestionID]
}

// ComputeReduction estimates the work-time reduction percentage from the
// readiness and adoption scores, rounded to one decimal. Low-adoption
// organizations are weighted to gain more marginal benefit (0.9) than ones
// where AI is already embedded (0.3).
func ComputeReduction(readiness, adoption int) float64 {
	ready := float64(readiness) / 100
	ratio := float64(adoption) / 100
	pct := ((1-ratio)*ready*0.9 + ratio*ready*0.3) * 100
	return math.Round(pct*10) / 10
}

// Compute derives the full Result from a complete answer set.
func Compute(a AnswerSet) (Result, error) {
	readiness, err := ComputeReadiness(a)
	if err != nil {
		return Result{}, err
	}
	adoption := ComputeAdoption(a)
	return Result{
		Readiness:     readiness,
		Adoption:      adoption,
		ReductionPct:  ComputeReduction(readiness, adoption),
		ReadinessBand: ClassifyReadiness(readiness),
		AdoptionBand:  ClassifyAdoption(adoption),
	}, nil
}
