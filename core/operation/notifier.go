package operation

// Notifier is any service that can surface transient user-facing notices
// (the toast equivalent of the web front-end).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}
