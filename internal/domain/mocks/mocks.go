// Package mocks provides testify mocks for the domain ports, bound to the
// test lifecycle so unmet expectations fail the test.
package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "github.com/nexfound/apply-engine/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockApplicationRepository is a mock of domain.ApplicationRepository.
type MockApplicationRepository struct{ mock.Mock }

// NewMockApplicationRepository creates a new mock bound to the test lifecycle.
func NewMockApplicationRepository(t testingT) *MockApplicationRepository {
	m := &MockApplicationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockApplicationRepository) CreateOrGet(ctx context.Context, a domain.Application) (domain.Application, bool, error) {
	ret := _m.Called(ctx, a)
	return ret.Get(0).(domain.Application), ret.Bool(1), ret.Error(2)
}

func (_m *MockApplicationRepository) Get(ctx context.Context, id string) (domain.Application, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Application), ret.Error(1)
}

func (_m *MockApplicationRepository) FindByListing(ctx context.Context, userID string, ref domain.ListingRef) (domain.Application, error) {
	ret := _m.Called(ctx, userID, ref)
	return ret.Get(0).(domain.Application), ret.Error(1)
}

func (_m *MockApplicationRepository) List(ctx context.Context, limit, offset int) ([]domain.Application, error) {
	ret := _m.Called(ctx, limit, offset)
	var apps []domain.Application
	if v := ret.Get(0); v != nil {
		apps = v.([]domain.Application)
	}
	return apps, ret.Error(1)
}

// MockListingRepository is a mock of domain.ListingRepository.
type MockListingRepository struct{ mock.Mock }

// NewMockListingRepository creates a new mock bound to the test lifecycle.
func NewMockListingRepository(t testingT) *MockListingRepository {
	m := &MockListingRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockListingRepository) Get(ctx context.Context, ref domain.ListingRef) (domain.Listing, error) {
	ret := _m.Called(ctx, ref)
	return ret.Get(0).(domain.Listing), ret.Error(1)
}

// MockProfileRepository is a mock of domain.ProfileRepository.
type MockProfileRepository struct{ mock.Mock }

// NewMockProfileRepository creates a new mock bound to the test lifecycle.
func NewMockProfileRepository(t testingT) *MockProfileRepository {
	m := &MockProfileRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockProfileRepository) GetUser(ctx context.Context, id string) (domain.UserProfile, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.UserProfile), ret.Error(1)
}

func (_m *MockProfileRepository) ListExperiences(ctx context.Context, userID string, limit int) ([]domain.Experience, error) {
	ret := _m.Called(ctx, userID, limit)
	var exps []domain.Experience
	if v := ret.Get(0); v != nil {
		exps = v.([]domain.Experience)
	}
	return exps, ret.Error(1)
}

func (_m *MockProfileRepository) ListProjects(ctx context.Context, ownerID string, limit int) ([]domain.Project, error) {
	ret := _m.Called(ctx, ownerID, limit)
	var projects []domain.Project
	if v := ret.Get(0); v != nil {
		projects = v.([]domain.Project)
	}
	return projects, ret.Error(1)
}

// MockCompletionClient is a mock of domain.CompletionClient.
type MockCompletionClient struct{ mock.Mock }

// NewMockCompletionClient creates a new mock bound to the test lifecycle.
func NewMockCompletionClient(t testingT) *MockCompletionClient {
	m := &MockCompletionClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	ret := _m.Called(ctx, systemPrompt, userPrompt, temperature, maxTokens)
	return ret.String(0), ret.Error(1)
}

// MockSessionStore is a mock of domain.SessionStore.
type MockSessionStore struct{ mock.Mock }

// NewMockSessionStore creates a new mock bound to the test lifecycle.
func NewMockSessionStore(t testingT) *MockSessionStore {
	m := &MockSessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockSessionStore) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(domain.Identity), ret.Error(1)
}

// MockEventPublisher is a mock of domain.EventPublisher.
type MockEventPublisher struct{ mock.Mock }

// NewMockEventPublisher creates a new mock bound to the test lifecycle.
func NewMockEventPublisher(t testingT) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockEventPublisher) PublishApplicationCreated(ctx context.Context, ev domain.ApplicationCreatedEvent) error {
	ret := _m.Called(ctx, ev)
	return ret.Error(0)
}
