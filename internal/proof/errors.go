package proof

import "errors"

// Structural graph errors. Dangling references, cycles, unknown nodes
// and double resolution indicate an orchestrator defect and are fatal
// to the session; ErrIncompleteProof is recoverable (the caller may
// still inspect the partial snapshot).
var (
	ErrDanglingReference = errors.New("parent node not present in graph")
	ErrCycle             = errors.New("insertion would create a cycle")
	ErrUnknownNode       = errors.New("unknown node")
	ErrAlreadyResolved   = errors.New("node verdict already resolved")
	ErrInvalidRoot       = errors.New("root node is not eligible")
	ErrIncompleteProof   = errors.New("proof is incomplete")
)
