package service

import (
	"context"

	"boutique/internal/domain/entity"
	"boutique/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockFederatedIdentityVerifier is a mock of service.FederatedIdentityVerifier.
type MockFederatedIdentityVerifier struct {
	mock.Mock
}

// NewMockFederatedIdentityVerifier returns a mock whose expectations are asserted when t ends.
func NewMockFederatedIdentityVerifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFederatedIdentityVerifier {
	m := &MockFederatedIdentityVerifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFederatedIdentityVerifier) VerifyIDToken(ctx context.Context, idToken string) (*service.FederatedUser, error) {
	args := m.Called(ctx, idToken)
	user, _ := args.Get(0).(*service.FederatedUser)

	return user, args.Error(1)
}

func (m *MockFederatedIdentityVerifier) Provider() entity.ProviderType {
	return m.Called().Get(0).(entity.ProviderType)
}
