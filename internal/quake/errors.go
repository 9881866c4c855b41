package quake

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure class. The typed errors below match them
// through errors.Is, so callers can branch on the class without a type switch.
var (
	ErrTransport   = errors.New("transport error")
	ErrStructure   = errors.New("unexpected page structure")
	ErrParse       = errors.New("unparseable cell")
	ErrNotScraped  = errors.New("no data found, run a scrape first")
	ErrEmptyResult = errors.New("cannot export empty data")
	ErrConfig      = errors.New("invalid configuration")
)

// TransportError reports a fetch that did not produce a usable response.
// StatusCode is zero when the request never got a response.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("non-success status code %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("requesting %s: %v", e.URL, e.Err)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// StructureError signals that the page no longer has the layout the column mapping
// expects. Row is -1 when the problem is not tied to a specific row.
type StructureError struct {
	Row    int
	Reason string
}

func (e *StructureError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return e.Reason
}

func (e *StructureError) Is(target error) bool { return target == ErrStructure }

// ParseError identifies a row whose cell text could not be interpreted.
type ParseError struct {
	Row  int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %q: %v", e.Row, e.Text, e.Err)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError reports an invalid option value, such as an unknown export type.
type ConfigError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ConfigError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid %s %q (must be one of %v)", e.Field, e.Value, e.Allowed)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
