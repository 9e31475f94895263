package model

// State is the position of a single URL in the enrichment pipeline.
type State string

const (
	StatePending         State = "pending"
	StateExtracting      State = "extracting"
	StateExtracted       State = "extracted"
	StateExtractFailed   State = "extract_failed"
	StateSummarizing     State = "summarizing"
	StateDone            State = "done"
	StateSummarizeFailed State = "summarize_failed"
)

// Terminal reports whether no further transition can leave this state.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateExtractFailed, StateSummarizeFailed:
		return true
	}
	return false
}

// Failed reports whether the state is one of the failure states.
func (s State) Failed() bool {
	return s == StateExtractFailed || s == StateSummarizeFailed
}

// Next reports whether moving from s to next is a legal transition.
func (s State) Next(next State) bool {
	switch s {
	case StatePending:
		return next == StateExtracting
	case StateExtracting:
		return next == StateExtracted || next == StateExtractFailed
	case StateExtracted:
		return next == StateSummarizing
	case StateSummarizing:
		return next == StateDone || next == StateSummarizeFailed
	}
	return false
}
