package handler

import (
	"context"

	"hospital-admin/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

func (m *mockAuthUsecase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

func (m *mockAuthUsecase) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	return tokens, args.Error(1)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	return m.Called(ctx, userID, accessTokenID, refreshTokenID).Error(0)
}

func (m *mockAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	return tokens, args.Error(1)
}

func (m *mockAuthUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

type mockPatientUsecase struct {
	mock.Mock
}

func (m *mockPatientUsecase) Admit(ctx context.Context, req *dto.AdmitPatientRequest) (*dto.PatientRecordResponse, error) {
	args := m.Called(ctx, req)
	record, _ := args.Get(0).(*dto.PatientRecordResponse)
	return record, args.Error(1)
}

func (m *mockPatientUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PatientRecordResponse, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*dto.PatientRecordResponse)
	return record, args.Error(1)
}

func (m *mockPatientUsecase) List(ctx context.Context, query *dto.PatientListQuery) (*dto.PatientListResponse, error) {
	args := m.Called(ctx, query)
	list, _ := args.Get(0).(*dto.PatientListResponse)
	return list, args.Error(1)
}

func (m *mockPatientUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientRecordResponse, error) {
	args := m.Called(ctx, id, req)
	record, _ := args.Get(0).(*dto.PatientRecordResponse)
	return record, args.Error(1)
}

func (m *mockPatientUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPatientUsecase) VisibleGroups(ctx context.Context, id uuid.UUID) (*dto.VisibleGroupsResponse, error) {
	args := m.Called(ctx, id)
	groups, _ := args.Get(0).(*dto.VisibleGroupsResponse)
	return groups, args.Error(1)
}

type mockLeaveUsecase struct {
	mock.Mock
}

func (m *mockLeaveUsecase) Submit(ctx context.Context, req *dto.SubmitLeaveRequest) (*dto.LeaveRequestResponse, error) {
	args := m.Called(ctx, req)
	request, _ := args.Get(0).(*dto.LeaveRequestResponse)
	return request, args.Error(1)
}

func (m *mockLeaveUsecase) List(ctx context.Context, query *dto.LeaveListQuery) (*dto.LeaveListResponse, error) {
	args := m.Called(ctx, query)
	list, _ := args.Get(0).(*dto.LeaveListResponse)
	return list, args.Error(1)
}

func (m *mockLeaveUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.LeaveRequestResponse, error) {
	args := m.Called(ctx, id)
	request, _ := args.Get(0).(*dto.LeaveRequestResponse)
	return request, args.Error(1)
}

func (m *mockLeaveUsecase) Approve(ctx context.Context, id uuid.UUID) (*dto.LeaveRequestResponse, error) {
	args := m.Called(ctx, id)
	request, _ := args.Get(0).(*dto.LeaveRequestResponse)
	return request, args.Error(1)
}

func (m *mockLeaveUsecase) Reject(ctx context.Context, id uuid.UUID, req *dto.RejectLeaveRequest) (*dto.LeaveRequestResponse, error) {
	args := m.Called(ctx, id, req)
	request, _ := args.Get(0).(*dto.LeaveRequestResponse)
	return request, args.Error(1)
}
