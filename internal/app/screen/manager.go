package screen

// Manager holds the modal screens drawn over the file browser, topmost last.
type Manager struct {
	stack []Screen
}

// NewManager returns a manager with no open screen.
func NewManager() *Manager {
	return &Manager{}
}

// Push opens s above the current screen.
func (m *Manager) Push(s Screen) {
	if s == nil {
		return
	}
	m.stack = append(m.stack, s)
}

// Pop closes the topmost screen and returns it, or nil when none is open.
func (m *Manager) Pop() Screen {
	n := len(m.stack)
	if n == 0 {
		return nil
	}
	top := m.stack[n-1]
	m.stack[n-1] = nil
	m.stack = m.stack[:n-1]
	return top
}

// Current returns the topmost screen, or nil.
func (m *Manager) Current() Screen {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// IsActive reports whether a screen is open.
func (m *Manager) IsActive() bool {
	return len(m.stack) > 0
}

// Set replaces the topmost screen with s after it handled a key. A nil s
// closes it.
func (m *Manager) Set(s Screen) {
	if s == nil {
		m.Pop()
		return
	}
	if len(m.stack) == 0 {
		m.stack = append(m.stack, s)
		return
	}
	m.stack[len(m.stack)-1] = s
}
