package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionExpired   = fmt.Errorf("session expired")

	// API transport errors
	ErrNetwork           = fmt.Errorf("network error")
	ErrTimeout           = fmt.Errorf("request timed out")
	ErrServer            = fmt.Errorf("server error")
	ErrMalformedResponse = fmt.Errorf("malformed response")
	ErrValidation        = fmt.Errorf("validation failed")
	ErrNotFound          = fmt.Errorf("resource not found")

	// Domain errors
	ErrMovieNotFound   = fmt.Errorf("movie not found")
	ErrCommentNotFound = fmt.Errorf("comment not found")
	ErrNotFavorite     = fmt.Errorf("movie is not in favorites")
	ErrStaleResponse   = fmt.Errorf("stale response discarded")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
