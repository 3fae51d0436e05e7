package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nagame-dev/aiready/internal/report"
	"github.com/nagame-dev/aiready/internal/scoring"
	"github.com/nagame-dev/aiready/internal/submit"
	"github.com/nagame-dev/aiready/internal/wizard"
)

func (s *Server) submitAndView(r *http.Request, sess *wizard.Session) wizard.Outcome {
	snap := sess.Snapshot()
	if snap.Step != wizard.StepReady || snap.Submission == wizard.SubmissionSucceeded {
		// Already submitted or wrong screen: fall through to the pure
		// view-results transition, which carries its own warning.
		return sess.Apply(wizard.Event{Type: wizard.EventViewResults})
	}
	err := s.performSubmission(r.Context(), snap)
	return sess.RecordSubmission(err)
}

func (s *Server) performSubmission(ctx context.Context, snap wizard.SessionSnapshot) error {
	ctx, span := s.tracer.Start(ctx, "submit.response")
	defer span.End()

	result, err := scoring.Compute(snap.Answers)
	if err != nil {
		return err
	}
	rec, err := submit.Build(s.clock(), s.loc, snap.Answers, result, submit.Meta{
		Region:    snap.Region,
		Industry:  snap.Industry,
		ClientID:  snap.ClientID,
		UserAgent: snap.UserAgent,
		Referrer:  snap.Referrer,
	})
	if err != nil {
		return err
	}
	if err := s.submitter.Submit(ctx, rec); err != nil {
		span.RecordError(err)
		return err
	}
	if s.mirror != nil {
		// Best effort: the primary write already succeeded.
		if merr := s.mirror.AppendRow(ctx, rec.Values()); merr != nil {
			s.logger.Printf("archive mirror append failed client=%s err=%v", rec.ClientID, merr)
		}
	}
	return nil
}

type resultsPayload struct {
	Readiness      int                     `json:"readiness"`
	ReadinessEmoji string                  `json:"readiness_emoji"`
	ReadinessLabel string                  `json:"readiness_label"`
	Adoption       int                     `json:"adoption"`
	AdoptionLabel  string                  `json:"adoption_label"`
	ReductionPct   float64                 `json:"reduction_pct"`
	Recommendation string                  `json:"recommendation"`
	Categories     []scoring.CategoryScore `json:"categories"`
	Submission     wizard.SubmissionState  `json:"submission"`
	ClientID       string                  `json:"client_id"`
}

// handleResults recomputes the score from the answer set on every render.
// An incomplete set fails closed with redirect information instead of a
// partial score.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request, sess *wizard.Session) {
	snap := sess.Snapshot()
	result, err := scoring.Compute(snap.Answers)
	if err != nil {
		var incomplete *scoring.IncompleteAnswersError
		if errors.As(err, &incomplete) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":             "answers are incomplete",
				"redirect_step":     wizard.StepQuestions,
				"redirect_question": incomplete.First(),
			})
			return
		}
		writeError(w, 500, "failed to compute results")
		return
	}
	writeJSON(w, 200, resultsPayload{
		Readiness:      result.Readiness,
		ReadinessEmoji: result.ReadinessBand.Emoji(),
		ReadinessLabel: result.ReadinessBand.Label(),
		Adoption:       result.Adoption,
		AdoptionLabel:  result.AdoptionBand.Label(),
		ReductionPct:   result.ReductionPct,
		Recommendation: scoring.Recommend(result.ReadinessBand, result.AdoptionBand),
		Categories:     scoring.AggregateCategories(s.questions, snap.Answers),
		Submission:     snap.Submission,
		ClientID:       snap.ClientID,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, sess *wizard.Session) {
	snap := sess.Snapshot()
	result, err := scoring.Compute(snap.Answers)
	if err != nil {
		writeError(w, http.StatusConflict, "answers are incomplete")
		return
	}
	markdown := report.BuildMarkdown(report.Input{
		Result:         result,
		Recommendation: scoring.Recommend(result.ReadinessBand, result.AdoptionBand),
		Categories:     scoring.AggregateCategories(s.questions, snap.Answers),
		Region:         snap.Region,
		Industry:       snap.Industry,
		GeneratedAt:    s.clock().In(s.loc).Format(time.RFC3339),
	})
	html, err := report.RenderHTML(markdown)
	if err != nil {
		s.logger.Printf("render report failed token=%s err=%v", snap.Token, err)
		writeError(w, 500, "failed to render report")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(200)
	_, _ = w.Write([]byte(html))
}
