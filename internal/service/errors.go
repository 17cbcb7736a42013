package service

import (
	"errors"
	"fmt"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/policy"
)

type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindNotFound
	KindForbidden
)

// Error is a business error with a message safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind and message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind && t.Message == e.Message
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func notFoundf(format string, args ...any) *Error {
	return NotFound(fmt.Sprintf(format, args...))
}

type errPair struct {
	from error
	to   error
}

func on(from, to error) errPair {
	return errPair{from: from, to: to}
}

// translate maps known repository sentinels to service errors and wraps
// anything else with op.
func translate(op string, err error, known ...errPair) error {
	for _, k := range known {
		if errors.Is(err, k.from) {
			return k.to
		}
	}

	return fmt.Errorf("%s -> %w", op, err)
}

func authorize(actor domain.Actor, res policy.Resource, action policy.Action) error {
	if d := policy.Evaluate(actor, res, action); !d.Allowed {
		return Forbidden(d.Reason)
	}

	return nil
}
