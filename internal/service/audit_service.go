package service

import (
	"context"
	"strings"
	"time"

	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/store"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

const (
	defaultLogLimit = 200
	maxLogLimit     = 1000
)

// AuditService appends to and reads the admin action trail
type AuditService struct {
	store *store.Store
	now   func() time.Time
}

func NewAuditService(st *store.Store) *AuditService {
	return &AuditService{store: st, now: func() time.Time { return time.Now().UTC() }}
}

// Record appends one entry through st, which is normally the caller's transaction
func (s *AuditService) Record(ctx context.Context, st *store.Store, action, entityType string, entityID *string, details string) error {
	entry := &model.AdminLog{
		CreatedAt:  s.now(),
		Action:     strings.TrimSpace(action),
		EntityType: strings.TrimSpace(entityType),
		EntityID:   entityID,
	}
	if d := strings.TrimSpace(details); d != "" {
		entry.Details = &d
	}
	if err := st.AppendAdminLog(ctx, entry); err != nil {
		logger.FromContext(ctx).Error("Failed to append admin log",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
		return err
	}
	return nil
}

// List returns entries newest first. Limit defaults to 200 and is capped at 1000.
func (s *AuditService) List(ctx context.Context, filter model.AdminLogFilter) ([]model.AdminLog, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLogLimit
	}
	if filter.Limit > maxLogLimit {
		filter.Limit = maxLogLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.EntityType = strings.TrimSpace(filter.EntityType)
	filter.Action = strings.TrimSpace(filter.Action)
	return s.store.ListAdminLogs(ctx, filter)
}

func strPtr(s string) *string {
	return &s
}
