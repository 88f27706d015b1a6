// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cobfus.dev/pkg/cobfus/internal/adapter"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

var _ adapter.ToolchainAdapter = (*MockToolchainAdapter)(nil)

// MockToolchainAdapter is a mock of adapter.ToolchainAdapter.
type MockToolchainAdapter struct {
	mock.Mock
}

// NewMockToolchainAdapter creates a mock and registers AssertExpectations on
// test cleanup.
func NewMockToolchainAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockToolchainAdapter {
	mockAdapter := &MockToolchainAdapter{}
	mockAdapter.Mock.Test(t)

	t.Cleanup(func() { mockAdapter.AssertExpectations(t) })

	return mockAdapter
}

// CompileExecutable provides a mock function.
func (_m *MockToolchainAdapter) CompileExecutable(ctx context.Context, source []byte, output m.Path) error {
	ret := _m.Called(ctx, source, output)
	return ret.Error(0)
}

// CompileObject provides a mock function.
func (_m *MockToolchainAdapter) CompileObject(ctx context.Context, source []byte, output m.Path) error {
	ret := _m.Called(ctx, source, output)
	return ret.Error(0)
}

// Strip provides a mock function.
func (_m *MockToolchainAdapter) Strip(ctx context.Context, object m.Path) error {
	ret := _m.Called(ctx, object)
	return ret.Error(0)
}

// Execute provides a mock function.
func (_m *MockToolchainAdapter) Execute(ctx context.Context, program m.Path, args ...string) (string, error) {
	ret := _m.Called(ctx, program, args)
	return ret.String(0), ret.Error(1)
}
