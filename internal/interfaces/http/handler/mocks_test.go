package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/infrastructure/printing"
	"github.com/cuadre/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Repository mocks
// =============================================================================

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, a *identity.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) CreateWithProfile(ctx context.Context, a *identity.Account, p *identity.Profile) error {
	return m.Called(ctx, a, p).Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, a *identity.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) UpdateLastLogin(ctx context.Context, a *identity.Account) error {
	return m.Called(ctx, a).Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, p *identity.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListRecent(ctx context.Context, limit int) ([]identity.Profile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, p *identity.Profile) error {
	return m.Called(ctx, p).Error(0)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, o *identity.Organization) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListByName(ctx context.Context) ([]identity.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Organization), args.Error(1)
}

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

type MockResetMailer struct {
	mock.Mock
}

func (m *MockResetMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	return m.Called(ctx, email, token).Error(0)
}

// =============================================================================
// Receipt stubs
// =============================================================================

type stubTemplate struct{}

func (stubTemplate) Render(entry *forms.CashCountEntry) (string, error) {
	return "<html>" + entry.EmployeeName + "</html>", nil
}

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(_ context.Context, _ *printing.RenderRequest) (*printing.RenderResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &printing.RenderResult{PDFData: []byte("%PDF-1.4")}, nil
}

func (stubRenderer) Close() error { return nil }

type stubStore struct {
	keys []string
}

func (s *stubStore) Upload(_ context.Context, key string, _ []byte, _ string) error {
	s.keys = append(s.keys, key)
	return nil
}

func (s *stubStore) PresignDownload(_ context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	return "https://receipts.example.com/" + key, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC).Add(ttl), nil
}

// =============================================================================
// Request helpers
// =============================================================================

func userSession(role identity.Role, orgID *uuid.UUID) *identity.Session {
	userID := uuid.New()
	return &identity.Session{
		UserID:  userID,
		Email:   "maria@example.com",
		TokenID: "jti-1",
		Profile: &identity.Profile{
			UserID:    userID,
			Email:     "maria@example.com",
			Role:      role,
			OrgID:     orgID,
			IsActive:  true,
			FirstName: "Maria",
			FullName:  "Maria Lopez",
		},
	}
}

// withSession stands in for the JWT and session middleware
func withSession(s *identity.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s != nil {
			c.Set(middleware.SessionKey, s)
		}
		c.Next()
	}
}

func newTestRouter(s *identity.Session) *gin.Engine {
	middleware.SetupValidator()
	router := gin.New()
	router.Use(middleware.RequestID(), withSession(s))
	return router
}

func doJSON(router http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeInto unmarshals the data field of a success envelope into out
func decodeInto(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
