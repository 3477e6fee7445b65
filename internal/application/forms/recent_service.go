package forms

import (
	"context"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// scopeAll is the cache scope of the unrestricted list
const scopeAll = "all"

// RecentEntriesService lists the newest Safe entries. Non-admins with an
// organization only see their organization's rows. Lists are cached per
// scope and dropped whenever a Safe entry is saved.
type RecentEntriesService struct {
	reader   forms.SafeEntryReader
	cache    forms.RecentEntryCache
	selector *SchemaSelector
	limit    int
	ttl      time.Duration
	logger   *zap.Logger
}

// NewRecentEntriesService creates a new RecentEntriesService. cache may be nil.
func NewRecentEntriesService(
	reader forms.SafeEntryReader,
	cache forms.RecentEntryCache,
	selector *SchemaSelector,
	limit int,
	ttl time.Duration,
	logger *zap.Logger,
) *RecentEntriesService {
	if limit <= 0 {
		limit = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if selector == nil {
		selector = NewSchemaSelector(forms.SchemaCurrent)
	}
	return &RecentEntriesService{
		reader:   reader,
		cache:    cache,
		selector: selector,
		limit:    limit,
		ttl:      ttl,
		logger:   logger,
	}
}

// scopeFor returns the org filter and the cache scope for a session
func scopeFor(session *identity.Session) (*uuid.UUID, string) {
	if session.IsAdmin() {
		return nil, scopeAll
	}
	org := session.OrgID()
	if org == nil {
		return nil, scopeAll
	}
	return org, "org:" + org.String()
}

// List returns the recent entries visible to session
func (s *RecentEntriesService) List(ctx context.Context, session *identity.Session) ([]forms.RecentEntry, error) {
	if !session.IsAuthenticated() {
		return nil, forms.ErrNotLoggedIn
	}
	orgID, scope := scopeFor(session)

	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx, scope)
		if err != nil {
			s.logger.Warn("recent entries cache read failed", zap.String("scope", scope), zap.Error(err))
		} else if ok {
			return entries, nil
		}
	}

	entries, attempt, err := runWithSchemaFallback(ctx, s.selector,
		func(ctx context.Context, v forms.PersistenceSchemaVariant) ([]forms.RecentEntry, error) {
			return s.reader.Recent(ctx, orgID, s.limit, v)
		})
	if attempt.Fallback {
		s.logger.Warn("form_safe layout mismatch on read, retried with other layout",
			zap.String("missing_column", attempt.Column),
			zap.String("retry_variant", attempt.Variant.String()),
		)
	}
	if err != nil {
		return nil, forms.NewPersistenceError(err)
	}
	if entries == nil {
		entries = []forms.RecentEntry{}
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, scope, entries, s.ttl); err != nil {
			s.logger.Warn("recent entries cache write failed", zap.String("scope", scope), zap.Error(err))
		}
	}
	return entries, nil
}

// Handle drops the cached lists a saved Safe entry belongs to
func (s *RecentEntriesService) Handle(ctx context.Context, event shared.DomainEvent) error {
	saved, ok := event.(*forms.EntrySavedEvent)
	if !ok || saved.FormType != forms.FormSafe || s.cache == nil {
		return nil
	}
	scopes := []string{scopeAll}
	if org := saved.OrgID(); org != uuid.Nil {
		scopes = append(scopes, "org:"+org.String())
	}
	for _, scope := range scopes {
		if err := s.cache.Invalidate(ctx, scope); err != nil {
			return err
		}
	}
	s.logger.Debug("recent entries invalidated", zap.Strings("scopes", scopes))
	return nil
}

// EventTypes implements shared.EventHandler
func (s *RecentEntriesService) EventTypes() []string {
	return []string{forms.EventTypeEntrySaved}
}

var _ shared.EventHandler = (*RecentEntriesService)(nil)
