package database

import "errors"

// StorageError reports a connectivity or constraint failure from the store.
// Op names the operation the way it would appear in a wrapped error message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err, the error unchanged when it already is a
// StorageError, and a new StorageError otherwise.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var se *StorageError
	if errors.As(err, &se) {
		return err
	}

	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err carries a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
