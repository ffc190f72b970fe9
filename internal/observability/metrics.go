package observability

import "sync"

// Operation names recorded by the issue service.
const (
	OpIssueCreated  = "issues_created"
	OpIssueAssigned = "issues_assigned"
	OpIssueResolved = "issues_resolved"
	OpIssueClosed   = "issues_closed"
)

// Metrics provides basic in-memory counters for service operations.
type Metrics struct {
	mu         sync.Mutex
	operations map[string]int64
	errors     map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		operations: make(map[string]int64),
		errors:     make(map[string]int64),
	}
}

// RecordOperation increments the counter for a completed operation.
func (m *Metrics) RecordOperation(op string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[op]++
}

// RecordError increments the failure counter for op keyed by error code.
func (m *Metrics) RecordError(op, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[op+"|"+code]++
}

// Snapshot returns copies of the operation and error counters.
func (m *Metrics) Snapshot() (operations, errors map[string]int64) {
	operations = make(map[string]int64)
	errors = make(map[string]int64)
	if m == nil {
		return operations, errors
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, count := range m.operations {
		operations[key] = count
	}
	for key, count := range m.errors {
		errors[key] = count
	}
	return operations, errors
}
