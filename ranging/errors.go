package ranging

import "errors"

// Errors returned by the engine. Callers compare with errors.Is; returned
// errors wrap these with call-specific detail.
var (
	// ErrConfiguration reports an invalid Config or a missing collaborator.
	ErrConfiguration = errors.New("ranging: invalid configuration")
	// ErrState reports an operation called in the wrong lifecycle state.
	ErrState = errors.New("ranging: invalid state")
	// ErrPlayback reports a failed emission. The scan loop logs and absorbs it.
	ErrPlayback = errors.New("ranging: playback failed")
)
