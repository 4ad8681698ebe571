package persist

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable is returned (wrapped) when the durable slot cannot be read or written
var ErrStorageUnavailable = errors.New("storage unavailable")

// DecodeError reports a stored snapshot that exists but cannot be decoded
type DecodeError struct {
	Slot string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding slot %q: %v", e.Slot, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
