package services

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a failure with a message that is safe to show to API clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps a storage or programming failure. msg is what the client sees.
func Internal(err error, msg string) error {
	return &Error{Kind: KindInternal, Message: msg, Err: errors.WithStack(err)}
}

// KindOf reports the kind of err, KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

var (
	ErrReviewNotFound     = NotFound("Review not found")
	ErrCommentNotFound    = NotFound("Comment not found")
	ErrUserNotFound       = NotFound("User not found")
	ErrInvalidRating      = BadRequest("Rating must be between 1 and 5")
	ErrInvalidCategory    = BadRequest("Invalid category")
	ErrInvalidParent      = BadRequest("Invalid parent comment")
	ErrInvalidVoteType    = BadRequest("Invalid vote type")
	ErrNoFieldsToUpdate   = BadRequest("No fields to update")
	ErrSearchQuery        = BadRequest("Search query is required")
	ErrUserExists         = Conflict("User already exists")
	ErrEmailTaken         = Conflict("Email is already taken")
	ErrInvalidCredentials = BadRequest("Invalid credentials")
	ErrWrongPassword      = BadRequest("Current password is incorrect")
	ErrPasswordTooShort   = BadRequest("Password must be at least 6 characters")
	ErrPasswordTooLong    = BadRequest("Password must be at most 72 bytes")
)
