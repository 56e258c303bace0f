package domain

// DefaultHistorySize is how many results a session keeps.
const DefaultHistorySize = 10

// History is an ordered list of results, most recent first.
// A trace ID appears at most once.
type History []ResolutionResult

// Upsert returns a new history with r at the front, any older entry for the
// same trace ID removed, and the list capped at limit entries.
// A non-positive limit means DefaultHistorySize.
func (h History) Upsert(r ResolutionResult, limit int) History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}

	out := make(History, 0, min(len(h)+1, limit))
	out = append(out, r)
	for _, e := range h {
		if len(out) == limit {
			break
		}
		if e.TraceID == r.TraceID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Find returns the entry for a trace ID.
func (h History) Find(traceID string) (ResolutionResult, bool) {
	for _, e := range h {
		if e.TraceID == traceID {
			return e, true
		}
	}
	return ResolutionResult{}, false
}
