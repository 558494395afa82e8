package fetch

import "errors"

var (
	// ErrUnexpectedStatus is returned for any response outside the 2xx range.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrBodyTooLarge is returned when a response body exceeds the size cap.
	ErrBodyTooLarge = errors.New("response body too large")
)
