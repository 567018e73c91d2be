// Human approval gate for side-effecting tools.
//
// Information Hiding:
// - Single-outstanding-request enforcement hidden
// - Prompt transport hidden behind the Approver interface

package agent

import (
	"encoding/json"
	"sync"
)

// Approver asks the human operator whether one tool invocation may run.
// The call blocks until the operator answers.
type Approver interface {
	PromptApproval(tool string, args json.RawMessage) (bool, error)
}

// Gate serializes approval requests. At most one request is outstanding at
// any time; a second caller blocks until the first answer lands.
type Gate struct {
	mu       sync.Mutex
	approver Approver
}

// NewGate creates a gate backed by the given approver.
func NewGate(approver Approver) *Gate {
	return &Gate{approver: approver}
}

// Request asks for approval of one tool invocation and blocks until the
// operator decides. Returns false on an explicit denial.
func (g *Gate) Request(tool string, args json.RawMessage) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.approver.PromptApproval(tool, args)
}
