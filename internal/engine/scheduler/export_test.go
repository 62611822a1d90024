package scheduler

// Concurrency returns the configured task concurrency.
// This is exported for testing purposes only.
func (s *Scheduler) Concurrency() int {
	return s.concurrency
}
