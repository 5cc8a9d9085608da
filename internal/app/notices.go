package app

import "sync"

// Notices collects user-facing notifications from the git gateway. Keyed
// notifications are delivered once per key.
type Notices struct {
	mu     sync.Mutex
	seen   map[string]bool
	latest string
	sev    string
}

// NewNotices returns an empty collector.
func NewNotices() *Notices {
	return &Notices{seen: make(map[string]bool)}
}

// Notify records message as the latest notice.
func (n *Notices) Notify(message, severity string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.latest = message
	n.sev = severity
}

// NotifyOnce records message unless key was already reported.
func (n *Notices) NotifyOnce(key, message, severity string) {
	n.mu.Lock()
	if n.seen[key] {
		n.mu.Unlock()
		return
	}
	n.seen[key] = true
	n.mu.Unlock()
	n.Notify(message, severity)
}

// Latest returns the most recent notice and its severity.
func (n *Notices) Latest() (string, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.latest, n.sev
}
