package query

import "fmt"

// InsufficientDomainError reports a node range that cannot yield the
// requested number of distinct (source, target) pairs.
type InsufficientDomainError struct {
	NodeCount int64
	Requested int
}

func (e *InsufficientDomainError) Error() string {
	if e.NodeCount < 2 {
		return fmt.Sprintf("need at least 2 nodes to sample queries, graph has %d", e.NodeCount)
	}
	return fmt.Sprintf("cannot sample %d distinct queries from %d nodes", e.Requested, e.NodeCount)
}
