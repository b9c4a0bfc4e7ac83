package roboflow

import (
	"context"
	"sync"
)

// Mock implements Inferencer for testing.
type Mock struct {
	// InferFunc is called when Infer is invoked. Defaults to returning
	// a single high-confidence "proper" prediction.
	InferFunc func(ctx context.Context, jpeg []byte) ([]Prediction, error)

	mu    sync.Mutex
	calls int
}

// NewMock creates a mock inferencer with a sensible default.
func NewMock() *Mock {
	return &Mock{
		InferFunc: func(ctx context.Context, jpeg []byte) ([]Prediction, error) {
			return []Prediction{{Class: "proper", Confidence: 0.9}}, nil
		},
	}
}

// Infer records the call and delegates to InferFunc.
func (m *Mock) Infer(ctx context.Context, jpeg []byte) ([]Prediction, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.InferFunc != nil {
		return m.InferFunc(ctx, jpeg)
	}
	return nil, nil
}

// Calls returns how many times Infer was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
