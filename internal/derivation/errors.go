package derivation

import "fmt"

// Kind classifies a LoadError.
type Kind int

const (
	// IoError means the descriptor file could not be opened or read.
	IoError Kind = iota
	// ParseError means the file was read but does not match the descriptor shape.
	ParseError
)

func (k Kind) String() string {
	switch k {
	case IoError:
		return "io error"
	case ParseError:
		return "parse error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// LoadError reports a descriptor that could not be loaded. Path always names
// the offending file, which may be a transitively referenced input rather than
// the root.
type LoadError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s loading derivation %q: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FieldError reports a required field that is missing or empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("required field %q is missing or empty", e.Field)
}
