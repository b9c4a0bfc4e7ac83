package posture

import "sync"

// MockBrightness implements Brightness for testing.
type MockBrightness struct {
	// SetFunc overrides the default behavior (record and return true).
	SetFunc func(percent int) bool

	mu    sync.Mutex
	calls []int
}

func (m *MockBrightness) Set(percent int) bool {
	m.mu.Lock()
	m.calls = append(m.calls, percent)
	m.mu.Unlock()
	if m.SetFunc != nil {
		return m.SetFunc(percent)
	}
	return true
}

// Calls returns the brightness levels requested so far.
func (m *MockBrightness) Calls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.calls...)
}

// Last returns the most recent brightness level, or -1 if none.
func (m *MockBrightness) Last() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return -1
	}
	return m.calls[len(m.calls)-1]
}

// MockMusic implements Music for testing.
type MockMusic struct {
	PlayFunc  func() bool
	PauseFunc func() bool

	mu     sync.Mutex
	plays  int
	pauses int
}

func (m *MockMusic) Play() bool {
	m.mu.Lock()
	m.plays++
	m.mu.Unlock()
	if m.PlayFunc != nil {
		return m.PlayFunc()
	}
	return true
}

func (m *MockMusic) Pause() bool {
	m.mu.Lock()
	m.pauses++
	m.mu.Unlock()
	if m.PauseFunc != nil {
		return m.PauseFunc()
	}
	return true
}

// Plays returns how many times Play was called.
func (m *MockMusic) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

// Pauses returns how many times Pause was called.
func (m *MockMusic) Pauses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

// MockPower implements Power for testing.
type MockPower struct {
	SuspendFunc func() bool

	mu       sync.Mutex
	prevents int
	allows   int
	suspends int
}

func (m *MockPower) PreventSleep() bool {
	m.mu.Lock()
	m.prevents++
	m.mu.Unlock()
	return true
}

func (m *MockPower) AllowSleep() bool {
	m.mu.Lock()
	m.allows++
	m.mu.Unlock()
	return true
}

func (m *MockPower) Suspend() bool {
	m.mu.Lock()
	m.suspends++
	m.mu.Unlock()
	if m.SuspendFunc != nil {
		return m.SuspendFunc()
	}
	return true
}

// Prevents returns how many times PreventSleep was called.
func (m *MockPower) Prevents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prevents
}

// Allows returns how many times AllowSleep was called.
func (m *MockPower) Allows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allows
}

// Suspends returns how many times Suspend was called.
func (m *MockPower) Suspends() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suspends
}
