package domain

import "time"

// SampleInput is a known-good thumbnail URL offered as an example.
const SampleInput = "https://sns-webpic-qc.xhscdn.com/202511292028/30ab642bea120348cf64a607c9eb8141/1040g00830t2hgqelk4005o49b2u097vri7c1ij8!nd_dft_wlteh_webp_3"

// State is everything the resolver page shows for one session.
// Transitions never mutate the receiver; they return the next state.
type State struct {
	Input    string
	Result   *ResolutionResult
	Err      error
	History  History
	Settings Settings

	// HistoryLimit caps History. Zero means DefaultHistorySize.
	HistoryLimit int
}

// NewState returns the initial state for a session.
func NewState(settings Settings, historyLimit int) State {
	return State{Settings: settings, HistoryLimit: historyLimit}
}

// Event is a discrete user action applied to a State.
type Event interface {
	Apply(s State) State
}

// TextChanged replaces the input text.
type TextChanged struct {
	Text string
}

func (e TextChanged) Apply(s State) State {
	s.Input = e.Text
	return s
}

// ResolveClicked resolves the current input.
// On failure only Err changes; result and history are kept.
type ResolveClicked struct {
	Now time.Time
}

func (e ResolveClicked) Apply(s State) State {
	s.Err = nil

	r, err := NewResolutionResult(s.Input, e.Now)
	if err != nil {
		s.Err = err
		return s
	}

	s.Result = &r
	s.History = s.History.Upsert(r, s.HistoryLimit)
	return s
}

// ToggleChanged sets the auto-download preference.
type ToggleChanged struct {
	AutoDownload bool
}

func (e ToggleChanged) Apply(s State) State {
	s.Settings.AutoDownload = e.AutoDownload
	return s
}

// HistorySelected brings a history entry back as the current result.
// Unknown trace IDs leave the state unchanged.
type HistorySelected struct {
	TraceID string
}

func (e HistorySelected) Apply(s State) State {
	r, ok := s.History.Find(e.TraceID)
	if !ok {
		return s
	}
	s.Result = &r
	s.Input = r.OriginalInput
	s.Err = nil
	return s
}

// HistoryCleared drops every history entry.
type HistoryCleared struct{}

func (HistoryCleared) Apply(s State) State {
	s.History = nil
	return s
}

// ClearClicked empties the input, the result and the error.
type ClearClicked struct{}

func (ClearClicked) Apply(s State) State {
	s.Input = ""
	s.Result = nil
	s.Err = nil
	return s
}

// SampleFilled puts SampleInput into the input field.
type SampleFilled struct{}

func (SampleFilled) Apply(s State) State {
	s.Input = SampleInput
	return s
}

// Apply runs events in order.
func (s State) Apply(events ...Event) State {
	for _, e := range events {
		s = e.Apply(s)
	}
	return s
}
