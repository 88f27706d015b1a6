// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cobfus.dev/pkg/cobfus/internal/domain"
)

var _ domain.Workflow = (*MockWorkflow)(nil)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a mock and registers AssertExpectations on test
// cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Mock.Test(t)

	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// Obfuscate provides a mock function.
func (_m *MockWorkflow) Obfuscate(ctx context.Context, args domain.ObfuscateArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Demo provides a mock function.
func (_m *MockWorkflow) Demo(ctx context.Context, args domain.DemoArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Verify provides a mock function.
func (_m *MockWorkflow) Verify(ctx context.Context, args domain.VerifyArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Levels provides a mock function.
func (_m *MockWorkflow) Levels(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// Examples provides a mock function.
func (_m *MockWorkflow) Examples(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}
