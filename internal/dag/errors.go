package dag

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle. Nodes lists the members of the cycle
// in dependency order; when the cycle closes, the first element is repeated
// at the end.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Nodes, " -> "))
}
