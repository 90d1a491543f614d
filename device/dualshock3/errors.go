package dualshock3

import (
	"errors"
	"fmt"
)

// ErrInvalidLength is returned when an output report update is not exactly
// OutputReportSize bytes. The existing report state is kept.
var ErrInvalidLength = errors.New("output report length must be 48 bytes")

// ErrProtocol wraps malformed or unrecognized feature sub-commands. The
// adapter logs the rejected SET_REPORT and drops it; the process keeps
// running.
var ErrProtocol = errors.New("protocol error")

// UnsupportedReportError is returned for a GET or SET with a (type, id)
// combination the controller does not implement.
type UnsupportedReportError struct {
	Type uint8
	ID   uint8
}

func (e *UnsupportedReportError) Error() string {
	return fmt.Sprintf("unsupported report type 0x%02X id 0x%02X", e.Type, e.ID)
}
