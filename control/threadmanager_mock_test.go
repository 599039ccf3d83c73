package control

// Code in this file follows the shape mockgen (github.com/golang/mock)
// generates for the ThreadManager interface, written by hand since the
// mockgen binary isn't run as part of this build.

import (
	"reflect"

	"github.com/golang/mock/gomock"
)

// MockThreadManager is a mock of the ThreadManager interface.
type MockThreadManager struct {
	ctrl     *gomock.Controller
	recorder *MockThreadManagerMockRecorder
}

// MockThreadManagerMockRecorder is the mock recorder for MockThreadManager.
type MockThreadManagerMockRecorder struct {
	mock *MockThreadManager
}

// NewMockThreadManager creates a new mock instance.
func NewMockThreadManager(ctrl *gomock.Controller) *MockThreadManager {
	mock := &MockThreadManager{ctrl: ctrl}
	mock.recorder = &MockThreadManagerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockThreadManager) EXPECT() *MockThreadManagerMockRecorder {
	return m.recorder
}

// MasterSpawnThread mocks base method.
func (m *MockThreadManager) MasterSpawnThread(req ThreadSpawnRequest) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "MasterSpawnThread", req)
}

// MasterSpawnThread indicates an expected call.
func (mr *MockThreadManagerMockRecorder) MasterSpawnThread(req interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MasterSpawnThread", reflect.TypeOf((*MockThreadManager)(nil).MasterSpawnThread), req)
}

// SlaveSpawnThread mocks base method.
func (m *MockThreadManager) SlaveSpawnThread(req ThreadSpawnRequest) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SlaveSpawnThread", req)
}

// SlaveSpawnThread indicates an expected call.
func (mr *MockThreadManagerMockRecorder) SlaveSpawnThread(req interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SlaveSpawnThread", reflect.TypeOf((*MockThreadManager)(nil).SlaveSpawnThread), req)
}

// MasterSpawnThreadReply mocks base method.
func (m *MockThreadManager) MasterSpawnThreadReply(req ThreadSpawnRequest) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "MasterSpawnThreadReply", req)
}

// MasterSpawnThreadReply indicates an expected call.
func (mr *MockThreadManagerMockRecorder) MasterSpawnThreadReply(req interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MasterSpawnThreadReply", reflect.TypeOf((*MockThreadManager)(nil).MasterSpawnThreadReply), req)
}

// MasterOnThreadExit mocks base method.
func (m *MockThreadManager) MasterOnThreadExit(threadID int32, cycleCount uint64) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "MasterOnThreadExit", threadID, cycleCount)
}

// MasterOnThreadExit indicates an expected call.
func (mr *MockThreadManagerMockRecorder) MasterOnThreadExit(threadID, cycleCount interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MasterOnThreadExit", reflect.TypeOf((*MockThreadManager)(nil).MasterOnThreadExit), threadID, cycleCount)
}

// MasterJoinThread mocks base method.
func (m *MockThreadManager) MasterJoinThread(req ThreadJoinRequest) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "MasterJoinThread", req)
}

// MasterJoinThread indicates an expected call.
func (mr *MockThreadManagerMockRecorder) MasterJoinThread(req interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MasterJoinThread", reflect.TypeOf((*MockThreadManager)(nil).MasterJoinThread), req)
}
