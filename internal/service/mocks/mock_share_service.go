package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/service"
)

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) Issue(ctx context.Context, in service.IssueInput) (*model.Share, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Share), args.Error(1)
}

func (m *MockShareService) Resolve(ctx context.Context, token, required string) (*model.Document, io.ReadCloser, error) {
	args := m.Called(ctx, token, required)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Document), args.Get(1).(io.ReadCloser), args.Error(2)
}

func (m *MockShareService) ListShared(ctx context.Context, userID, email string) (*service.SharedOverview, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SharedOverview), args.Error(1)
}

func (m *MockShareService) Revoke(ctx context.Context, grantorID, shareID string) error {
	args := m.Called(ctx, grantorID, shareID)
	return args.Error(0)
}
