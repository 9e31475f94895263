package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ErrorPrefix marks a summary cell that carries a failure instead of a summary.
const ErrorPrefix = "Error: "

// Outcome is the tagged per-URL result: a summary when State is StateDone,
// otherwise the failure message of the stage that failed.
type Outcome struct {
	State   State
	Summary string
	Message string
}

// Succeeded builds a successful outcome. The summary is kept verbatim.
func Succeeded(summary string) Outcome {
	return Outcome{State: StateDone, Summary: summary}
}

// Failed builds a failure outcome for the given terminal failure state.
func Failed(state State, err error) Outcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Outcome{State: state, Message: msg}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.State == StateDone
}

// Text is the value shown in the Summary column.
func (o Outcome) Text() string {
	if o.OK() {
		return o.Summary
	}
	return ErrorPrefix + o.Message
}

// Record is one row of the report: the website and its outcome.
type Record struct {
	Website string
	Outcome Outcome
}

// Summary returns the summary column value for the record.
func (r Record) Summary() string {
	return r.Outcome.Text()
}

type recordJSON struct {
	Website string `json:"website"`
	Summary string `json:"summary"`
	State   State  `json:"state"`
	Error   string `json:"error,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Website: r.Website,
		Summary: r.Summary(),
		State:   r.Outcome.State,
		Error:   r.Outcome.Message,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Website = raw.Website
	if raw.State == StateDone {
		r.Outcome = Succeeded(raw.Summary)
		return nil
	}
	r.Outcome = Outcome{State: raw.State, Message: raw.Error}
	return nil
}

// Report is the ordered collection of records produced by one run.
type Report struct {
	ID        string    `json:"id"`
	Directive string    `json:"directive"`
	CreatedAt time.Time `json:"created_at"`
	Records   []Record  `json:"records"`
}

// NewReport creates a report with a fresh ID.
func NewReport(directive string, records []Record) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Directive: directive,
		CreatedAt: time.Now().UTC(),
		Records:   records,
	}
}

// Len returns the number of rows.
func (r *Report) Len() int { return len(r.Records) }

// Succeeded counts rows with a summary.
func (r *Report) Succeeded() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Outcome.OK() {
			n++
		}
	}
	return n
}

// Failed counts rows carrying an error.
func (r *Report) Failed() int {
	return r.Len() - r.Succeeded()
}

// Header returns the tabular column names.
func (r *Report) Header() []string {
	return []string{"Website", "Summary"}
}

// Rows returns the report as string rows in record order, without the header.
func (r *Report) Rows() [][]string {
	rows := make([][]string, len(r.Records))
	for i, rec := range r.Records {
		rows[i] = []string{rec.Website, rec.Summary()}
	}
	return rows
}
