package shared

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrNotConfigured = fmt.Errorf("YouTube API key not configured")

	// Upstream (YouTube) errors
	ErrAPIRequest    = fmt.Errorf("YouTube API request failed")
	ErrVideoNotFound = fmt.Errorf("video not found")
	ErrFetchFailed   = fmt.Errorf("could not fetch video details from YouTube")
	ErrTimeout       = fmt.Errorf("operation timed out")

	// Library errors
	ErrSongNotFound      = fmt.Errorf("song not found")
	ErrPlaylistNotFound  = fmt.Errorf("playlist not found")
	ErrPlaylistExists    = fmt.Errorf("playlist already exists")
	ErrAlreadyInPlaylist = fmt.Errorf("song already in playlist")

	// Input validation errors
	ErrInvalidURL      = fmt.Errorf("invalid YouTube URL")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// UpstreamError is returned when the YouTube Data API answers with an error status.
//
// Message is safe to show to users; Err holds the client library error.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Unwrap exposes both [ErrAPIRequest] and the underlying cause to [errors.Is].
func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAPIRequest}
	}
	return []error{ErrAPIRequest, e.Err}
}

// Kind groups errors by who is expected to act on them.
type Kind int

const (
	KindInternal   Kind = iota // bug or storage failure
	KindValidation             // bad user input; not logged as a fault
	KindNotFound               // referenced record does not exist
	KindUpstream               // YouTube failed or is not configured; logged
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// ErrorKind classifies err by the sentinels it wraps.
func ErrorKind(err error) Kind {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrInvalidURL),
		errors.Is(err, ErrPlaylistExists),
		errors.Is(err, ErrAlreadyInPlaylist),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMissingArgument),
		errors.Is(err, ErrInvalidArgument):
		return KindValidation
	case errors.Is(err, ErrSongNotFound), errors.Is(err, ErrPlaylistNotFound):
		return KindNotFound
	case errors.As(err, &upstream),
		errors.Is(err, ErrNotConfigured),
		errors.Is(err, ErrAPIRequest),
		errors.Is(err, ErrVideoNotFound),
		errors.Is(err, ErrFetchFailed),
		errors.Is(err, ErrTimeout):
		return KindUpstream
	default:
		return KindInternal
	}
}

// UserMessage renders err as a sentence for display, capitalizing the first letter.
//
// Internal errors are replaced with a generic message so storage details are not leaked.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if ErrorKind(err) == KindInternal {
		return "Internal error"
	}
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
