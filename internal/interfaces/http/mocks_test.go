package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/application/service"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Signup(ctx context.Context, req service.SignupRequest) (*entity.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, identifier, password string) (*entity.Session, *entity.User, error) {
	args := m.Called(ctx, identifier, password)
	s, _ := args.Get(0).(*entity.Session)
	u, _ := args.Get(1).(*entity.User)
	return s, u, args.Error(2)
}

func (m *mockAuth) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockAuth) Authenticate(ctx context.Context, sessionID string) (*entity.User, error) {
	args := m.Called(ctx, sessionID)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockAuth) ResetPassword(ctx context.Context, identifier, p1, p2 string) error {
	return m.Called(ctx, identifier, p1, p2).Error(0)
}

type mockProfile struct{ mock.Mock }

func (m *mockProfile) GetProfile(ctx context.Context, user *entity.User) (*service.Profile, error) {
	args := m.Called(ctx, user)
	p, _ := args.Get(0).(*service.Profile)
	return p, args.Error(1)
}

func (m *mockProfile) UpdateProfile(ctx context.Context, user *entity.User, update service.ProfileUpdate) (*service.Profile, error) {
	args := m.Called(ctx, user, update)
	p, _ := args.Get(0).(*service.Profile)
	return p, args.Error(1)
}

type mockLogbooks struct{ mock.Mock }

func (m *mockLogbooks) Catalog(ctx context.Context, user *entity.User) ([]*service.LogbookSummary, error) {
	args := m.Called(ctx, user)
	s, _ := args.Get(0).([]*service.LogbookSummary)
	return s, args.Error(1)
}

func (m *mockLogbooks) Create(ctx context.Context, user *entity.User, req service.CreateLogbookRequest) (*entity.Logbook, error) {
	args := m.Called(ctx, user, req)
	lb, _ := args.Get(0).(*entity.Logbook)
	return lb, args.Error(1)
}

func (m *mockLogbooks) Detail(ctx context.Context, user *entity.User, id int64) (*service.LogbookDetail, error) {
	args := m.Called(ctx, user, id)
	d, _ := args.Get(0).(*service.LogbookDetail)
	return d, args.Error(1)
}

func (m *mockLogbooks) Delete(ctx context.Context, user *entity.User, id int64) error {
	return m.Called(ctx, user, id).Error(0)
}

func (m *mockLogbooks) WeekEntries(ctx context.Context, user *entity.User, week int) ([]port.DayActivity, error) {
	args := m.Called(ctx, user, week)
	d, _ := args.Get(0).([]port.DayActivity)
	return d, args.Error(1)
}

func (m *mockLogbooks) UpdateDiagram(ctx context.Context, user *entity.User, id int64, content []byte) (*entity.Logbook, error) {
	args := m.Called(ctx, user, id, content)
	lb, _ := args.Get(0).(*entity.Logbook)
	return lb, args.Error(1)
}

func (m *mockLogbooks) Summarize(ctx context.Context, user *entity.User, id int64) (*entity.Logbook, error) {
	args := m.Called(ctx, user, id)
	lb, _ := args.Get(0).(*entity.Logbook)
	return lb, args.Error(1)
}

type mockEntries struct{ mock.Mock }

func (m *mockEntries) Create(ctx context.Context, user *entity.User, logbookID int64, req service.EntryRequest) (*entity.Entry, error) {
	args := m.Called(ctx, user, logbookID, req)
	e, _ := args.Get(0).(*entity.Entry)
	return e, args.Error(1)
}

func (m *mockEntries) CreateBatch(ctx context.Context, user *entity.User, logbookID int64) ([]*entity.Entry, error) {
	args := m.Called(ctx, user, logbookID)
	e, _ := args.Get(0).([]*entity.Entry)
	return e, args.Error(1)
}

func (m *mockEntries) Update(ctx context.Context, user *entity.User, logbookID, entryID int64, req service.EntryRequest) (*entity.Entry, error) {
	args := m.Called(ctx, user, logbookID, entryID, req)
	e, _ := args.Get(0).(*entity.Entry)
	return e, args.Error(1)
}

type mockOperations struct{ mock.Mock }

func (m *mockOperations) List(ctx context.Context, user *entity.User, logbookID int64) ([]*entity.Operation, error) {
	args := m.Called(ctx, user, logbookID)
	o, _ := args.Get(0).([]*entity.Operation)
	return o, args.Error(1)
}

func (m *mockOperations) Create(ctx context.Context, user *entity.User, logbookID int64, req service.OperationRequest) (*entity.Operation, error) {
	args := m.Called(ctx, user, logbookID, req)
	o, _ := args.Get(0).(*entity.Operation)
	return o, args.Error(1)
}

func (m *mockOperations) Update(ctx context.Context, user *entity.User, logbookID, operationID int64, req service.OperationRequest) (*entity.Operation, error) {
	args := m.Called(ctx, user, logbookID, operationID, req)
	o, _ := args.Get(0).(*entity.Operation)
	return o, args.Error(1)
}

func (m *mockOperations) Delete(ctx context.Context, user *entity.User, logbookID, operationID int64) error {
	return m.Called(ctx, user, logbookID, operationID).Error(0)
}

type mockDocuments struct{ mock.Mock }

func (m *mockDocuments) Generate(ctx context.Context, user *entity.User, logbookID int64) (*service.GeneratedFile, error) {
	args := m.Called(ctx, user, logbookID)
	f, _ := args.Get(0).(*service.GeneratedFile)
	return f, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
