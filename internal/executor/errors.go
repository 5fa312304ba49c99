package executor

import "fmt"

// BuildError reports a builder failure for one derivation.
type BuildError struct {
	Name string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build of %q failed: %v", e.Name, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
