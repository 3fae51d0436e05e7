package wizard

// Step is the active wizard screen. Exactly one step is active per
// session; Apply is the only way to change it.
type Step string

const (
	// StepIndustry captures region and industry before the questions.
	StepIndustry Step = "industry"
	// StepQuestions pages through the ten slider questions.
	StepQuestions Step = "questions"
	// StepReady is the confirmation gate before results.
	StepReady Step = "ready"
	// StepResults shows the computed scores and recommendation.
	StepResults Step = "results"
	// StepCompleted is terminal until an explicit reset.
	StepCompleted Step = "completed"
)

// EventType names a wizard interaction.
type EventType string

const (
	EventSelectIndustry EventType = "select_industry"
	EventAnswerNext     EventType = "answer_next"
	EventAnswerBack     EventType = "answer_back"
	EventEditAnswers    EventType = "edit_answers"
	EventViewResults    EventType = "view_results"
	EventComplete       EventType = "complete"
	EventReset          EventType = "reset"
)

// Event carries one interaction and its payload. Value is the slider
// position for answer events; the remaining fields belong to
// EventSelectIndustry.
type Event struct {
	Type           EventType `json:"type"`
	Value          int       `json:"value"`
	Region         string    `json:"region"`
	Industry       string    `json:"industry"`
	IndustryCustom string    `json:"industry_custom"`
}

// Outcome reports the user-visible effect of an event. Validation problems
// never surface as errors; they block the transition and set Warning.
type Outcome struct {
	Warning string `json:"warning,omitempty"`
}
