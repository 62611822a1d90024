package domain

// NodeStatus represents the lifecycle state of a graph node during one run.
type NodeStatus string

const (
	// StatusPending indicates the node has not started.
	StatusPending NodeStatus = "pending"
	// StatusRunning indicates the node is executing.
	StatusRunning NodeStatus = "running"
	// StatusSucceeded indicates the node completed successfully.
	StatusSucceeded NodeStatus = "succeeded"
	// StatusFailed indicates the node failed.
	StatusFailed NodeStatus = "failed"
)

// IsTerminal checks if a status is a terminal state (Succeeded, Failed).
func (s NodeStatus) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}
