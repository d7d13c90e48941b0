package lifecycle

import "fmt"

// Error codes carried by lifecycle errors. Stable strings so callers and log
// scrapers can match on them.
const (
	CodeInvalidObject     = "LC101"
	CodeInvalidState      = "LC102"
	CodeAlreadyInactive   = "LC122"
	CodeBackgroundNoLower = "LC123"
	CodeBadTransition     = "LC130"
	CodeDuplicateTiers    = "LC161"
)

// InvalidObjectError reports an object the manager cannot track.
type InvalidObjectError struct {
	Code string
	ID   string
	Msg  string
}

func (e *InvalidObjectError) Error() string {
	return fmt.Sprintf("%s: invalid object %q: %s", e.Code, e.ID, e.Msg)
}

// TransitionError reports a state change the lifecycle table forbids.
type TransitionError struct {
	Code    string
	ID      string
	Current State
	Target  State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: object %q cannot move %s -> %s", e.Code, e.ID, e.Current, e.Target)
}

// CorruptStateError reports objects found in more than one tier at once.
type CorruptStateError struct {
	Code     string
	Affected []string
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("%s: objects present in multiple tiers: %v", e.Code, e.Affected)
}
