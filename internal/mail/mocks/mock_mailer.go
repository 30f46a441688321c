package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOTP(ctx context.Context, to, code, validFor string) error {
	args := m.Called(ctx, to, code, validFor)
	return args.Error(0)
}

func (m *MockMailer) SendShareNotification(ctx context.Context, to, documentTitle, sharedBy, shareURL string) error {
	args := m.Called(ctx, to, documentTitle, sharedBy, shareURL)
	return args.Error(0)
}
