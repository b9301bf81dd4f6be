package protocol

import "fmt"

// Command result codes the bridge reports in Response.Error. The set
// mirrors the game-side plugin interface; anything else is an opaque
// failure message from a newer bridge.
const (
	ErrLinkFailure    = "CR_LINK_FAILURE"
	ErrNeedsConsole   = "CR_NEEDS_CONSOLE"
	ErrNotImplemented = "CR_NOT_IMPLEMENTED"
	ErrFailure        = "CR_FAILURE"
	ErrWrongUsage     = "CR_WRONG_USAGE"
	ErrNotFound       = "CR_NOT_FOUND"
)

var knownCodes = map[string]struct{}{
	ErrLinkFailure:    {},
	ErrNeedsConsole:   {},
	ErrNotImplemented: {},
	ErrFailure:        {},
	ErrWrongUsage:     {},
	ErrNotFound:       {},
}

// IsKnownCode reports whether code is one of the bridge's command
// result codes. The empty string means no error.
func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// BridgeError is a failed call, as reported by the bridge itself.
type BridgeError struct {
	Method string
	Code   string
}

func (e *BridgeError) Error() string {
	if IsKnownCode(e.Code) {
		return fmt.Sprintf("%s: bridge: %s", e.Method, e.Code)
	}
	return fmt.Sprintf("%s: bridge: unrecognized %q", e.Method, e.Code)
}

// NotFound reports whether the bridge rejected the method as unknown,
// which usually means the world is not loaded yet.
func (e *BridgeError) NotFound() bool {
	return e.Code == ErrNotFound
}
