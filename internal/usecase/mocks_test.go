package usecase

import (
	"context"
	"io"
	"testing"

	"hospital-admin/internal/delivery/http/middleware"
	"hospital-admin/internal/domain/entity"
	"hospital-admin/internal/engine"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// =============================================================================
// Repository mocks
// =============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(db *gorm.DB, user *entity.User) error {
	args := m.Called(db, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(db, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(db, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) Update(db *gorm.DB, user *entity.User) error {
	args := m.Called(db, user)
	return args.Error(0)
}

type mockPatientRepo struct {
	mock.Mock
}

func (m *mockPatientRepo) Create(db *gorm.DB, record *entity.PatientRecord) error {
	args := m.Called(db, record)
	return args.Error(0)
}

func (m *mockPatientRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.PatientRecord, error) {
	args := m.Called(db, id)
	record, _ := args.Get(0).(*entity.PatientRecord)
	return record, args.Error(1)
}

func (m *mockPatientRepo) FindAll(db *gorm.DB, filter *entity.PatientFilter) ([]entity.PatientRecord, int64, error) {
	args := m.Called(db, filter)
	records, _ := args.Get(0).([]entity.PatientRecord)
	return records, args.Get(1).(int64), args.Error(2)
}

func (m *mockPatientRepo) Update(db *gorm.DB, record *entity.PatientRecord, expectedVersion int) (int64, error) {
	args := m.Called(db, record, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPatientRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockLeaveRepo struct {
	mock.Mock
}

func (m *mockLeaveRepo) Create(db *gorm.DB, request *entity.LeaveRequest) error {
	args := m.Called(db, request)
	return args.Error(0)
}

func (m *mockLeaveRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.LeaveRequest, error) {
	args := m.Called(db, id)
	request, _ := args.Get(0).(*entity.LeaveRequest)
	return request, args.Error(1)
}

func (m *mockLeaveRepo) FindAll(db *gorm.DB, filter *entity.LeaveFilter) ([]entity.LeaveRequest, int64, error) {
	args := m.Called(db, filter)
	requests, _ := args.Get(0).([]entity.LeaveRequest)
	return requests, args.Get(1).(int64), args.Error(2)
}

func (m *mockLeaveRepo) UpdateDecision(db *gorm.DB, request *entity.LeaveRequest) (int64, error) {
	args := m.Called(db, request)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Helpers
// =============================================================================

// newTestDB returns a gorm handle backed by sqlmock. Repositories are mocked,
// so only transaction boundaries ever reach the driver.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Discard,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, sqlMock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	registry, err := engine.NewRegistry(engine.DefaultTable())
	require.NoError(t, err)
	return engine.New(registry)
}

func actorFor(role entity.Role) entity.Actor {
	return entity.Actor{ID: uuid.New(), Role: role}
}

func ctxFor(actor entity.Actor) context.Context {
	return middleware.WithActor(context.Background(), actor)
}
