package docload

import (
	"context"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockLoader is a mock implementation of DocumentLoader for testing.
type MockLoader struct {
	mock.Mock
}

var _ contract.DocumentLoader = &MockLoader{} // Compile-time check

// Load implements the DocumentLoader interface.
func (m *MockLoader) Load(ctx context.Context, path string, format schema.InputFormat) (any, error) {
	ret := m.Called(ctx, path, format)
	return ret.Get(0), ret.Error(1)
}

// Decode implements the DocumentLoader interface.
func (m *MockLoader) Decode(data []byte, format schema.InputFormat) (any, error) {
	ret := m.Called(data, format)
	return ret.Get(0), ret.Error(1)
}
