package git

import (
	"errors"
	"fmt"
)

var ErrBranchNotFound = errors.New("branch not found")

// Returned when the repository could not be cloned: bad URL, unreachable
// remote, or rejected credentials.
type CloneError struct {
	URL string
	Err error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("failed to clone %s: %v", e.URL, e.Err)
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

type BranchNotFoundError struct {
	Branch string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("no such branch: %s", e.Branch)
}

func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}
