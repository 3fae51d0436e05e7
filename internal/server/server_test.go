package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nagame-dev/aiready/internal/quizbank"
	"github.com/nagame-dev/aiready/internal/submit"
	"github.com/nagame-dev/aiready/internal/wizard"
)

type memStore struct {
	rows [][]any
	err  error
}

func (m *memStore) AppendRow(ctx context.Context, values []any) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, values)
	return nil
}

func instantSleep(ctx context.Context, d time.Duration) error { return nil }

func newTestServer(t *testing.T, store submit.RowStore) (*httptest.Server, *Server) {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)
	srv := New(Options{
		Questions: quizbank.Default(),
		Submitter: submit.New(store, submit.Options{Sleep: instantSleep, Logger: quiet}),
		Location:  time.FixedZone("JST", 9*60*60),
		Clock:     func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) },
		Logger:    quiet,
		SinkName:  "memory",
	})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, srv
}

func postJSON(t *testing.T, url string, payload any) viewModel {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST %s returned %d: %s", url, resp.StatusCode, raw)
	}
	var vm viewModel
	if err := json.NewDecoder(resp.Body).Decode(&vm); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return vm
}

func createSession(t *testing.T, ts *httptest.Server) viewModel {
	t.Helper()
	return postJSON(t, ts.URL+"/api/sessions?ref=campaign", nil)
}

func sendEvent(t *testing.T, ts *httptest.Server, token string, ev wizard.Event) viewModel {
	t.Helper()
	return postJSON(t, ts.URL+"/api/sessions/"+token+"/events", ev)
}

// walkToReady drives a fresh session through industry selection and all
// ten questions with the same slider value.
func walkToReady(t *testing.T, ts *httptest.Server, value int) string {
	t.Helper()
	vm := createSession(t, ts)
	token := vm.Token

	vm = sendEvent(t, ts, token, wizard.Event{Type: wizard.EventSelectIndustry, Region: "関東", Industry: "製造業"})
	if vm.Step != wizard.StepQuestions {
		t.Fatalf("step = %s, want questions", vm.Step)
	}
	for i := 0; i < len(quizbank.Default()); i++ {
		vm = sendEvent(t, ts, token, wizard.Event{Type: wizard.EventAnswerNext, Value: value})
		if vm.Warning != "" {
			t.Fatalf("question %d warned: %s", i+1, vm.Warning)
		}
	}
	if vm.Step != wizard.StepReady {
		t.Fatalf("step = %s, want ready", vm.Step)
	}
	return token
}

func TestCreateSessionShowsIndustryChoices(t *testing.T) {
	ts, _ := newTestServer(t, &memStore{})
	vm := createSession(t, ts)

	if vm.Token == "" || vm.ClientID == "" {
		t.Fatal("expected token and client id")
	}
	if vm.Step != wizard.StepIndustry {
		t.Fatalf("step = %s, want industry", vm.Step)
	}
	if len(vm.Regions) == 0 || len(vm.Industries) == 0 {
		t.Fatal("expected region and industry choices on the first screen")
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	ts, _ := newTestServer(t, &memStore{})
	resp, err := http.Get(ts.URL + "/api/sessions/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestQuestionScreenShowsSavedSliderValue(t *testing.T) {
	ts, _ := newTestServer(t, &memStore{})
	vm := createSession(t, ts)
	token := vm.Token

	sendEvent(t, ts, token, wizard.Event{Type: wizard.EventSelectIndustry, Region: "関東", Industry: "製造業"})
	vm = sendEvent(t, ts, token, wizard.Event{Type: wizard.EventAnswerNext, Value: 80})
	if vm.QuestionIndex != 1 || vm.SliderValue != defaultSliderValue {
		t.Fatalf("q2 view = index %d slider %d", vm.QuestionIndex, vm.SliderValue)
	}

	vm = sendEvent(t, ts, token, wizard.Event{Type: wizard.EventAnswerBack, Value: 30})
	if vm.QuestionIndex != 0 {
		t.Fatalf("index = %d, want 0 after back", vm.QuestionIndex)
	}
	if vm.SliderValue != 80 {
		t.Fatalf("slider = %d, want saved 80", vm.SliderValue)
	}
}

func TestSubmitAndViewWithWorkingSink(t *testing.T) {
	store := &memStore{}
	ts, _ := newTestServer(t, store)
	token := walkToReady(t, ts, 60)

	vm := sendEvent(t, ts, token, wizard.Event{Type: eventSubmitAndView})
	if vm.Warning != "" {
		t.Fatalf("unexpected warning: %s", vm.Warning)
	}
	if vm.Step != wizard.StepResults || vm.Submission != wizard.SubmissionSucceeded {
		t.Fatalf("step = %s submission = %s", vm.Step, vm.Submission)
	}
	if len(store.rows) != 1 {
		t.Fatalf("sink received %d rows, want 1", len(store.rows))
	}
	if len(store.rows[0]) != submit.ColumnCount {
		t.Fatalf("row has %d columns, want %d", len(store.rows[0]), submit.ColumnCount)
	}

	// A second submit falls through to a plain view with a notice, without
	// writing another row.
	vm = sendEvent(t, ts, token, wizard.Event{Type: eventSubmitAndView})
	if len(store.rows) != 1 {
		t.Fatalf("resubmission wrote a duplicate row: %d", len(store.rows))
	}
	if vm.Step != wizard.StepResults {
		t.Fatalf("step = %s, want results", vm.Step)
	}
}

func TestSubmitFailureStillShowsResults(t *testing.T) {
	store := &memStore{err: errors.New("sheet unreachable")}
	ts, _ := newTestServer(t, store)
	token := walkToReady(t, ts, 60)

	vm := sendEvent(t, ts, token, wizard.Event{Type: eventSubmitAndView})
	if vm.Step != wizard.StepResults {
		t.Fatalf("step = %s, want results despite sink failure", vm.Step)
	}
	if vm.Submission != wizard.SubmissionFailed {
		t.Fatalf("submission = %s, want failed", vm.Submission)
	}
	if !strings.Contains(vm.Warning, "送信に失敗") {
		t.Fatalf("warning = %q, want submission failure notice", vm.Warning)
	}
}

func TestResultsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, &memStore{})
	token := walkToReady(t, ts, 60)
	sendEvent(t, ts, token, wizard.Event{Type: eventSubmitAndView})

	resp, err := http.Get(ts.URL + "/api/sessions/" + token + "/results")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var payload resultsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload.Readiness != 60 || payload.Adoption != 60 {
		t.Fatalf("scores = %d/%d, want 60/60", payload.Readiness, payload.Adoption)
	}
	if payload.Recommendation == "" {
		t.Fatal("expected a recommendation")
	}
	if len(payload.Categories) == 0 {
		t.Fatal("expected category scores")
	}
}

func TestResultsFailClosedWhenIncomplete(t *testing.T) {
	ts, _ := newTestServer(t, &memStore{})
	vm := createSession(t, ts)

	resp, err := http.Get(ts.URL + "/api/sessions/" + vm.Token + "/results")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	var body struct {
		RedirectStep     wizard.Step `json:"redirect_step"`
		RedirectQuestion int         `json:"redirect_question"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.RedirectStep != wizard.StepQuestions || body.RedirectQuestion != 0 {
		t.Fatalf("redirect = %s/%d, want questions/0", body.RedirectStep, body.RedirectQuestion)
	}
}

func TestReportEndpointRendersHTML(t *testing.T) {
	ts, _ := newTestServer(t, &memStore{})
	token := walkToReady(t, ts, 60)

	resp, err := http.Get(ts.URL + "/api/sessions/" + token + "/report")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	html, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "AI Ready") {
		t.Fatal("report body missing the heading")
	}
}

func TestQuestionsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, &memStore{})
	resp, err := http.Get(ts.URL + "/api/questions")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		Questions []quizbank.Question `json:"questions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Questions) != quizbank.ExpectedCount {
		t.Fatalf("got %d questions, want %d", len(body.Questions), quizbank.ExpectedCount)
	}
}

func TestHealthzReportsSink(t *testing.T) {
	ts, _ := newTestServer(t, &memStore{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || !strings.Contains(string(raw), "memory") {
		t.Fatalf("healthz = %d %s", resp.StatusCode, raw)
	}
}
