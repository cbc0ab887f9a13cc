package service

import "errors"

// Error classes. Handlers map them to status codes; only ErrUnavailable is
// worth retrying.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("service temporarily unavailable")
	ErrInternal     = errors.New("internal server error")
)

// Error is a caller-facing error of one of the classes above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

var (
	ErrPostNotFound    = &Error{Kind: ErrNotFound, Message: "post not found"}
	ErrCommentNotFound = &Error{Kind: ErrNotFound, Message: "comment not found"}

	ErrInvalidRating       = &Error{Kind: ErrInvalidInput, Message: "rating value must be between 1 and 5"}
	ErrCommentTextRequired = &Error{Kind: ErrInvalidInput, Message: "comment text is required"}
	ErrCommentTooLong      = &Error{Kind: ErrInvalidInput, Message: "comment cannot exceed 500 characters"}
	ErrInvalidTitle        = &Error{Kind: ErrInvalidInput, Message: "title must be between 3 and 200 characters"}
	ErrContentTooShort     = &Error{Kind: ErrInvalidInput, Message: "content must be at least 10 characters long"}

	ErrCannotUpdatePost    = &Error{Kind: ErrForbidden, Message: "not authorized to update this post"}
	ErrCannotDeletePost    = &Error{Kind: ErrForbidden, Message: "not authorized to delete this post"}
	ErrCannotDeleteComment = &Error{Kind: ErrForbidden, Message: "not authorized to delete this comment"}
)

// errorClass is the metrics label for err.
func errorClass(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "internal"
	}
}
