package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mayankk-1803/file-store/internal/model"
)

type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, s *model.Share) (*model.Share, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Share), args.Error(1)
}

func (m *MockShareRepository) FindByToken(ctx context.Context, token string) (*model.Share, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Share), args.Error(1)
}

func (m *MockShareRepository) ListByGrantor(ctx context.Context, grantorID string) ([]model.GrantedShare, error) {
	args := m.Called(ctx, grantorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GrantedShare), args.Error(1)
}

func (m *MockShareRepository) ListByRecipient(ctx context.Context, userID, email string) ([]model.ReceivedShare, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReceivedShare), args.Error(1)
}

func (m *MockShareRepository) Deactivate(ctx context.Context, id, grantorID string) (int64, error) {
	args := m.Called(ctx, id, grantorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShareRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

func (m *MockShareRepository) CountActiveByGrantor(ctx context.Context, grantorID string) (int, error) {
	args := m.Called(ctx, grantorID)
	return args.Int(0), args.Error(1)
}

func (m *MockShareRepository) RecordAccess(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
