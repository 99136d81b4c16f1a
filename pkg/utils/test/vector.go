package testutils

import (
	"context"

	"github.com/papercomputeco/hindsight/pkg/vector"
	"github.com/papercomputeco/hindsight/pkg/vector/inmemory"
)

// MockVectorDriver is a test vector driver. It delegates to a real
// in-memory driver so distances are exact, while letting specs inject
// failures per operation.
type MockVectorDriver struct {
	Inner vector.Driver

	AddErr    error
	QueryErr  error
	GetErr    error
	ListErr   error
	DeleteErr error
	CountErr  error

	// DeletedIDs records every ID passed to Delete
	DeletedIDs []string

	// QueryTopKs records the topK passed to every Query call
	QueryTopKs []int
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Inner: inmemory.NewDriver(),
	}
}

func (m *MockVectorDriver) Add(ctx context.Context, docs []vector.Document) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	return m.Inner.Add(ctx, docs)
}

func (m *MockVectorDriver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	m.QueryTopKs = append(m.QueryTopKs, topK)
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return m.Inner.Query(ctx, embedding, topK)
}

func (m *MockVectorDriver) Get(ctx context.Context, ids []string) ([]vector.Document, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Inner.Get(ctx, ids)
}

func (m *MockVectorDriver) List(ctx context.Context) ([]vector.Document, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Inner.List(ctx)
}

func (m *MockVectorDriver) Delete(ctx context.Context, ids []string) error {
	m.DeletedIDs = append(m.DeletedIDs, ids...)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.Inner.Delete(ctx, ids)
}

func (m *MockVectorDriver) Count(ctx context.Context) (int, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return m.Inner.Count(ctx)
}

func (m *MockVectorDriver) Close() error {
	return m.Inner.Close()
}
