package daily

import "fmt"

// TransportError covers network and HTTP-status failures on the read
// operations. Callers render it inline; it is never fatal and never
// retried automatically.
type TransportError struct {
	Op      string
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// SummarizationError carries the server-reported detail for a failed
// summarize call, or a generic status message when none was supplied.
type SummarizationError struct {
	Status int
	Detail string
}

func (e *SummarizationError) Error() string {
	return e.Detail
}
