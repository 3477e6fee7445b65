package forms_test

import (
	"context"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockSafeEntryWriter struct {
	mock.Mock
}

func (m *MockSafeEntryWriter) Insert(ctx context.Context, entry *forms.CashCountEntry, variant forms.PersistenceSchemaVariant) (forms.InsertedRow, error) {
	args := m.Called(ctx, entry, variant)
	return args.Get(0).(forms.InsertedRow), args.Error(1)
}

type MockSafeEntryReader struct {
	mock.Mock
}

func (m *MockSafeEntryReader) Recent(ctx context.Context, orgID *uuid.UUID, limit int, variant forms.PersistenceSchemaVariant) ([]forms.RecentEntry, error) {
	args := m.Called(ctx, orgID, limit, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]forms.RecentEntry), args.Error(1)
}

func (m *MockSafeEntryReader) FindByID(ctx context.Context, id uuid.UUID, orgID *uuid.UUID, variant forms.PersistenceSchemaVariant) (*forms.CashCountEntry, error) {
	args := m.Called(ctx, id, orgID, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forms.CashCountEntry), args.Error(1)
}

type MockSheetWriter struct {
	mock.Mock
}

func (m *MockSheetWriter) InsertLoteria(ctx context.Context, e *forms.LoteriaEntry) (forms.InsertedRow, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(forms.InsertedRow), args.Error(1)
}

func (m *MockSheetWriter) InsertCashPayment(ctx context.Context, e *forms.CashPaymentEntry) (forms.InsertedRow, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(forms.InsertedRow), args.Error(1)
}

func (m *MockSheetWriter) InsertTransfer(ctx context.Context, e *forms.TransferEntry) (forms.InsertedRow, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(forms.InsertedRow), args.Error(1)
}

func (m *MockSheetWriter) InsertDaily(ctx context.Context, e *forms.DailyEntry) (forms.InsertedRow, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(forms.InsertedRow), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockRecentEntryCache struct {
	mock.Mock
}

func (m *MockRecentEntryCache) Get(ctx context.Context, scope string) ([]forms.RecentEntry, bool, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]forms.RecentEntry), args.Bool(1), args.Error(2)
}

func (m *MockRecentEntryCache) Set(ctx context.Context, scope string, entries []forms.RecentEntry, ttl time.Duration) error {
	args := m.Called(ctx, scope, entries, ttl)
	return args.Error(0)
}

func (m *MockRecentEntryCache) Invalidate(ctx context.Context, scope string) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}

type MockReceiptStore struct {
	mock.Mock
}

func (m *MockReceiptStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockReceiptStore) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	return m.Called().Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

var (
	testOrgID  = uuid.MustParse("6f1c7a52-3d0e-4b8e-9d55-0b6f4f6a2a11")
	testUserID = uuid.MustParse("2b9e3c1d-7f41-4e0a-8a6b-3c5d9e7f1a22")
)

func userSession() *identity.Session {
	org := testOrgID
	return &identity.Session{
		UserID:  testUserID,
		Email:   "maria@example.com",
		Profile: identity.NewProfile(testUserID, "maria@example.com", identity.RoleUser, &org, "Maria Lopez"),
	}
}

func adminSession() *identity.Session {
	return &identity.Session{
		UserID:  testUserID,
		Email:   "boss@example.com",
		Profile: identity.NewProfile(testUserID, "boss@example.com", identity.RoleAdmin, nil, ""),
	}
}

func orphanSession() *identity.Session {
	return &identity.Session{
		UserID:  testUserID,
		Email:   "new@example.com",
		Profile: identity.NewProfile(testUserID, "new@example.com", identity.RoleUser, nil, ""),
	}
}

func mismatchErr(column string) error {
	return &forms.StoreError{
		Code:    "42703",
		Message: `column "` + column + `" of relation "form_safe" does not exist`,
	}
}
