package store

import (
	"context"

	"github.com/suteetoe/hrms/internal/model"
)

func (s *Store) AppendAdminLog(ctx context.Context, entry *model.AdminLog) error {
	defer s.track("append_admin_log")()
	return s.conn(ctx).Create(entry).Error
}

// ListAdminLogs returns entries newest first
func (s *Store) ListAdminLogs(ctx context.Context, filter model.AdminLogFilter) ([]model.AdminLog, error) {
	defer s.track("list_admin_logs")()

	query := s.conn(ctx).Model(&model.AdminLog{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	logs := []model.AdminLog{}
	err := query.Order("created_at DESC").Order("id DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
