package mocks

import (
	"github.com/stretchr/testify/mock"

	"cobfus.dev/pkg/cobfus/internal/adapter"
)

var _ adapter.ObjectInspector = (*MockObjectInspector)(nil)

// MockObjectInspector is a mock of adapter.ObjectInspector.
type MockObjectInspector struct {
	mock.Mock
}

// NewMockObjectInspector creates a mock and registers AssertExpectations on
// test cleanup.
func NewMockObjectInspector(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockObjectInspector {
	mockInspector := &MockObjectInspector{}
	mockInspector.Mock.Test(t)

	t.Cleanup(func() { mockInspector.AssertExpectations(t) })

	return mockInspector
}

// Sections provides a mock function.
func (_m *MockObjectInspector) Sections(object []byte) ([]adapter.ObjectSection, error) {
	ret := _m.Called(object)

	sections, _ := ret.Get(0).([]adapter.ObjectSection)

	return sections, ret.Error(1)
}

// DiffSections provides a mock function.
func (_m *MockObjectInspector) DiffSections(a, b []byte) ([]string, error) {
	ret := _m.Called(a, b)

	diff, _ := ret.Get(0).([]string)

	return diff, ret.Error(1)
}
