package server

import (
	"github.com/nagame-dev/aiready/internal/quizbank"
	"github.com/nagame-dev/aiready/internal/wizard"
)

// defaultSliderValue is shown for a question that has no saved answer yet.
const defaultSliderValue = 50

type viewModel struct {
	Token         string                 `json:"token"`
	ClientID      string                 `json:"client_id"`
	Step          wizard.Step            `json:"step"`
	QuestionIndex int                    `json:"question_index"`
	QuestionTotal int                    `json:"question_total"`
	Question      *quizbank.Question     `json:"question,omitempty"`
	SliderValue   int                    `json:"slider_value"`
	Progress      float64                `json:"progress"`
	Regions       []string               `json:"regions,omitempty"`
	Industries    []string               `json:"industries,omitempty"`
	CanSubmit     bool                   `json:"can_submit"`
	Submission    wizard.SubmissionState `json:"submission"`
	Warning       string                 `json:"warning,omitempty"`
}

// renderView is a pure function of a session snapshot. It never mutates.
func (s *Server) renderView(snap wizard.SessionSnapshot, warning string) viewModel {
	total := len(s.questions)
	vm := viewModel{
		Token:         snap.Token,
		ClientID:      snap.ClientID,
		Step:          snap.Step,
		QuestionIndex: snap.Cursor,
		QuestionTotal: total,
		SliderValue:   defaultSliderValue,
		CanSubmit:     s.sinkName != "" && snap.Submission != wizard.SubmissionSucceeded,
		Submission:    snap.Submission,
		Warning:       warning,
	}

	switch snap.Step {
	case wizard.StepIndustry:
		vm.Regions = wizard.Regions
		vm.Industries = wizard.Industries
	case wizard.StepQuestions:
		if snap.Cursor < total {
			q := s.questions[snap.Cursor]
			vm.Question = &q
			if saved, ok := snap.Answers[q.ID]; ok {
				vm.SliderValue = saved
			}
		}
		if total > 0 {
			vm.Progress = float64(snap.Cursor) / float64(total)
		}
	default:
		vm.Progress = 1
	}
	return vm
}
