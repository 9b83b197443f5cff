package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWorker struct {
	name     string
	startErr error
	stopErr  error
	started  atomic.Bool
	stopped  atomic.Bool
	order    *[]string
}

func (f *fakeWorker) Name() string { return f.name }

func (f *fakeWorker) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started.Store(true)
	return nil
}

func (f *fakeWorker) Stop() error {
	f.stopped.Store(true)
	if f.order != nil {
		*f.order = append(*f.order, f.name)
	}
	return f.stopErr
}

func TestWorkerManager_Lifecycle(t *testing.T) {
	var order []string
	a := &fakeWorker{name: "a", order: &order}
	b := &fakeWorker{name: "b", order: &order}
	broken := &fakeWorker{name: "broken", startErr: errors.New("boom")}

	m := NewWorkerManager(zap.NewNop())
	m.Register(a)
	m.Register(broken)
	m.Register(b)
	assert.Equal(t, 3, m.GetWorkerCount())

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.Error(t, m.StartAll(context.Background()))

	require.NoError(t, m.StopAll())
	assert.False(t, m.IsRunning())
	assert.Equal(t, []string{"b", "a"}, order)
	assert.False(t, broken.stopped.Load())

	require.NoError(t, m.StopAll())
}

func TestWorkerManager_StopErrors(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	m.Register(&fakeWorker{name: "x", stopErr: errors.New("stuck")})

	require.NoError(t, m.StartAll(context.Background()))
	err := m.StopAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x: stuck")
}

type mockSessions struct{ mock.Mock }

func (m *mockSessions) Create(ctx context.Context, s *entity.Session) error { return nil }
func (m *mockSessions) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	return nil, nil
}
func (m *mockSessions) Delete(ctx context.Context, id string) error { return nil }
func (m *mockSessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockDocuments struct{ mock.Mock }

func (m *mockDocuments) Upsert(ctx context.Context, d *entity.GeneratedDocument) error { return nil }
func (m *mockDocuments) GetByLogbookID(ctx context.Context, id int64) (*entity.GeneratedDocument, error) {
	return nil, nil
}
func (m *mockDocuments) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*entity.GeneratedDocument, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]*entity.GeneratedDocument), args.Error(1)
}
func (m *mockDocuments) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestRetentionWorker_Sweep(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	old := filepath.Join(t.TempDir(), "old.docx")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0644))

	sessions := &mockSessions{}
	sessions.On("DeleteExpired", mock.Anything, now).Return(int64(2), nil)

	docs := &mockDocuments{}
	docs.On("ListOlderThan", mock.Anything, now.Add(-24*time.Hour)).Return([]*entity.GeneratedDocument{
		{ID: 7, LogbookID: 3, FilePath: old},
		{ID: 8, LogbookID: 4, FilePath: filepath.Join(t.TempDir(), "already-gone.docx")},
	}, nil)
	docs.On("Delete", mock.Anything, int64(7)).Return(nil)
	docs.On("Delete", mock.Anything, int64(8)).Return(nil)

	w := NewRetentionWorker(RetentionConfig{Interval: time.Hour, DocumentMaxAge: 24 * time.Hour}, sessions, docs, zap.NewNop())
	w.now = func() time.Time { return now }
	w.Sweep(context.Background())

	sessions.AssertExpectations(t)
	docs.AssertExpectations(t)
	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err))
}

func TestRetentionWorker_NoDocumentAge(t *testing.T) {
	sessions := &mockSessions{}
	sessions.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil)
	docs := &mockDocuments{}

	w := NewRetentionWorker(RetentionConfig{}, sessions, docs, zap.NewNop())
	w.Sweep(context.Background())

	sessions.AssertExpectations(t)
	docs.AssertNotCalled(t, "ListOlderThan", mock.Anything, mock.Anything)
}

func TestRetentionWorker_StartStop(t *testing.T) {
	swept := make(chan struct{}, 1)
	sessions := &mockSessions{}
	sessions.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil).Run(func(mock.Arguments) {
		select {
		case swept <- struct{}{}:
		default:
		}
	})

	w := NewRetentionWorker(RetentionConfig{Interval: time.Hour}, sessions, &mockDocuments{}, zap.NewNop())
	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run on start")
	}
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
