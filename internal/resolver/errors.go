package resolver

import "fmt"

// NameConflictError reports two descriptor files that share a derivation name
// but carry different content.
type NameConflictError struct {
	Name       string
	FirstPath  string
	SecondPath string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("derivation name %q is declared by %q and, with different content, by %q", e.Name, e.FirstPath, e.SecondPath)
}
