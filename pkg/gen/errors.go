package gen

import (
	"errors"
	"fmt"

	"github.com/wildfunctions/genetic_programs/pkg/types"
)

var (
	// ErrTypeExhausted means no operator, constant factory or variable of
	// a required type exists. Retrying with the same palette cannot help.
	ErrTypeExhausted = errors.New("type exhausted")
	// ErrInvalidType means a required type is unset or malformed.
	ErrInvalidType = errors.New("invalid type")
)

// TypeError identifies the type a generation call could not satisfy.
// It unwraps to ErrTypeExhausted or ErrInvalidType, and to the
// underlying validation error when there is one.
type TypeError struct {
	Kind error
	Type types.Type
	What string
	Err  error
}

func (e *TypeError) Error() string {
	switch {
	case e.Err != nil:
		return e.Err.Error()
	case e.Type == nil:
		return fmt.Sprintf("%v: %s", e.Kind, e.What)
	default:
		return fmt.Sprintf("%v: %s of type %s", e.Kind, e.What, e.Type.Key())
	}
}

func (e *TypeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func exhausted(t types.Type, what string) error {
	return &TypeError{Kind: ErrTypeExhausted, Type: t, What: what}
}

func invalidType(t types.Type, cause error) error {
	return &TypeError{Kind: ErrInvalidType, Type: t, Err: cause}
}
