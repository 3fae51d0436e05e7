// Package submit persists one finalized quiz response as a flat row in an
// external row store, with bounded retry. Delivery is at-least-once: a
// timeout on an append that actually landed can double-append on retry.
// There is no protocol-level deduplication.
package submit

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nagame-dev/aiready/internal/scoring"
)

// ColumnCount is the persisted row width. Column order and count are the
// schema contract; never reorder.
const ColumnCount = 20

const (
	// DefaultReferrer is written when no ref query parameter was seen.
	DefaultReferrer = "direct"
	// PlaceholderUserAgent is written when the client sent no User-Agent.
	PlaceholderUserAgent = "aiready-web"
)

// Meta is the respondent metadata that accompanies the scores in the row.
type Meta struct {
	Region    string
	Industry  string
	ClientID  string
	UserAgent string
	Referrer  string
}

// Record is one flattened response row.
type Record struct {
	Timestamp    time.Time
	Answers      [scoring.QuestionCount]int
	Readiness    int
	Adoption     int
	ReductionPct float64
	Region       string
	Industry     string
	ClientID     string
	UserAgent    string
	Referrer     string
	Notes        string
}

// Build assembles a record from a complete answer set, its score result,
// and the respondent metadata. The timestamp carries the local offset of
// loc (e.g. +09:00).
func Build(now time.Time, loc *time.Location, answers scoring.AnswerSet, result scoring.Result, meta Meta) (Record, error) {
	ordered, err := answers.Ordered()
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		Timestamp:    now.In(loc),
		Readiness:    result.Readiness,
		Adoption:     result.Adoption,
		ReductionPct: result.ReductionPct,
		Region:       meta.Region,
		Industry:     meta.Industry,
		ClientID:     meta.ClientID,
		UserAgent:    meta.UserAgent,
		Referrer:     meta.Referrer,
	}
	copy(rec.Answers[:], ordered)
	if rec.UserAgent == "" {
		rec.UserAgent = PlaceholderUserAgent
	}
	if rec.Referrer == "" {
		rec.Referrer = DefaultReferrer
	}
	return rec, nil
}

// Values flattens the record into the ordered scalar list the row store
// appends: timestamp, answer_1..answer_10, readiness, adoption,
// reduction_pct, region, industry, client_id, user_agent, referrer, notes.
func (r Record) Values() []any {
	values := make([]any, 0, ColumnCount)
	values = append(values, r.Timestamp.Format(time.RFC3339))
	for _, v := range r.Answers {
		values = append(values, v)
	}
	values = append(values,
		r.Readiness,
		r.Adoption,
		r.ReductionPct,
		r.Region,
		r.Industry,
		r.ClientID,
		r.UserAgent,
		r.Referrer,
		r.Notes,
	)
	return values
}

// ParseValues rebuilds a record from a persisted row. It accepts the
// numeric column types a store may hand back (int, int64, float64, or
// their string forms).
func ParseValues(values []any) (Record, error) {
	if len(values) != ColumnCount {
		return Record{}, fmt.Errorf("row has %d columns, want %d", len(values), ColumnCount)
	}
	var rec Record
	ts, err := time.Parse(time.RFC3339, asString(values[0]))
	if err != nil {
		return Record{}, fmt.Errorf("parse timestamp: %w", err)
	}
	rec.Timestamp = ts
	for i := 0; i < scoring.QuestionCount; i++ {
		v, err := asInt(values[1+i])
		if err != nil {
			return Record{}, fmt.Errorf("parse answer_%d: %w", i+1, err)
		}
		rec.Answers[i] = v
	}
	if rec.Readiness, err = asInt(values[11]); err != nil {
		return Record{}, fmt.Errorf("parse readiness: %w", err)
	}
	if rec.Adoption, err = asInt(values[12]); err != nil {
		return Record{}, fmt.Errorf("parse adoption: %w", err)
	}
	if rec.ReductionPct, err = asFloat(values[13]); err != nil {
		return Record{}, fmt.Errorf("parse reduction_pct: %w", err)
	}
	rec.Region = asString(values[14])
	rec.Industry = asString(values[15])
	rec.ClientID = asString(values[16])
	rec.UserAgent = asString(values[17])
	rec.Referrer = asString(values[18])
	rec.Notes = asString(values[19])
	return rec, nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
