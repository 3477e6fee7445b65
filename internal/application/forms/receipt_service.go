package forms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/printing"
	"github.com/cuadre/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiptStore keeps generated receipts and hands out download links
type ReceiptStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
}

// ReceiptTemplate renders an entry as an HTML receipt
type ReceiptTemplate interface {
	Render(entry *forms.CashCountEntry) (string, error)
}

// ReceiptLink is a generated receipt ready for download
type ReceiptLink struct {
	EntryID   uuid.UUID `json:"entry_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	SizeBytes int       `json:"size_bytes"`
}

// ReceiptService prints a saved Safe entry to PDF and stores it
type ReceiptService struct {
	reader   forms.SafeEntryReader
	selector *SchemaSelector
	template ReceiptTemplate
	renderer printing.PDFRenderer
	store    ReceiptStore
	linkTTL  time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewReceiptService creates a new ReceiptService. A nil store disables
// receipts.
func NewReceiptService(
	reader forms.SafeEntryReader,
	selector *SchemaSelector,
	template ReceiptTemplate,
	renderer printing.PDFRenderer,
	store ReceiptStore,
	linkTTL time.Duration,
	timeout time.Duration,
	logger *zap.Logger,
) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if selector == nil {
		selector = NewSchemaSelector(forms.SchemaCurrent)
	}
	return &ReceiptService{
		reader:   reader,
		selector: selector,
		template: template,
		renderer: renderer,
		store:    store,
		linkTTL:  linkTTL,
		timeout:  timeout,
		logger:   logger,
	}
}

// Enabled reports whether receipts can be generated
func (s *ReceiptService) Enabled() bool {
	return s != nil && s.store != nil && s.renderer != nil
}

// ReceiptKey is the object key of an entry's receipt
func ReceiptKey(orgID *uuid.UUID, entryID uuid.UUID) string {
	scope := "no-org"
	if orgID != nil {
		scope = orgID.String()
	}
	return fmt.Sprintf("receipts/%s/%s.pdf", scope, entryID)
}

// Generate renders the receipt of entry id, uploads it and returns a
// presigned link. Non-admins can only print their organization's entries.
func (s *ReceiptService) Generate(ctx context.Context, session *identity.Session, id uuid.UUID) (*ReceiptLink, error) {
	if !s.Enabled() {
		return nil, shared.ErrFeatureOff
	}
	if !session.IsAuthenticated() {
		return nil, forms.ErrNotLoggedIn
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "ReceiptService", "Generate",
		telemetry.SpanAttrEntryID, id.String(),
	)
	defer span.End()

	orgID, _ := scopeFor(session)
	entry, _, err := runWithSchemaFallback(ctx, s.selector,
		func(ctx context.Context, v forms.PersistenceSchemaVariant) (*forms.CashCountEntry, error) {
			return s.reader.FindByID(ctx, id, orgID, v)
		})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		telemetry.RecordError(span, err)
		return nil, forms.NewPersistenceError(err)
	}

	html, err := s.template.Render(entry)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, printing.NewRenderError(printing.ErrCodeTemplate, "failed to render receipt", err)
	}

	pdf, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:     html,
		Title:    "Cuadre del Safe " + entry.EntryDate,
		WidthMM:  printing.ReceiptWidthMM,
		MarginMM: 4,
		Timeout:  s.timeout,
	})
	if err != nil {
		s.logger.Error("receipt render failed", zap.String("entry_id", id.String()), zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, err
	}

	key := ReceiptKey(entry.OrgID, entry.ID)
	if err := s.store.Upload(ctx, key, pdf.PDFData, "application/pdf"); err != nil {
		s.logger.Error("receipt upload failed", zap.String("key", key), zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("upload receipt: %w", err)
	}

	url, expires, err := s.store.PresignDownload(ctx, key, s.linkTTL)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("presign receipt: %w", err)
	}

	s.logger.Info("receipt generated",
		zap.String("entry_id", id.String()),
		zap.Int("bytes", len(pdf.PDFData)),
		zap.Duration("render_duration", pdf.RenderDuration),
	)
	return &ReceiptLink{EntryID: entry.ID, URL: url, ExpiresAt: expires, SizeBytes: len(pdf.PDFData)}, nil
}
