// Package geoerr defines the error kinds returned by the geometry engine.
// Callers branch on Kind, never on message text.
package geoerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure
type Kind int

const (
	// Unknown is returned by KindOf for errors that did not originate here
	Unknown Kind = iota
	// MissingInput means a required argument was nil, empty or blank
	MissingInput
	// InvalidCount means a point list or threshold violated a size constraint
	InvalidCount
	// InvalidInput means a value was present but unusable (not a number,
	// not finite, unknown coordinate system)
	InvalidInput
	// InvalidGeometry means construction produced an empty or wrong-typed shape
	InvalidGeometry
	// GeodeticFailure means an ellipsoidal computation produced no finite answer
	GeodeticFailure
)

var kindNames = map[Kind]string{
	Unknown:         "Unknown",
	MissingInput:    "MissingInput",
	InvalidCount:    "InvalidCount",
	InvalidInput:    "InvalidInput",
	InvalidGeometry: "InvalidGeometry",
	GeodeticFailure: "GeodeticFailure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a classified engine failure
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

// New returns a classified error carrying a stack trace
func New(kind Kind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, Msg: msg})
}

// Newf is New with formatting
func Newf(kind Kind, format string, a ...interface{}) error {
	return New(kind, fmt.Sprintf(format, a...))
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
