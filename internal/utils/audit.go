package utils

import (
	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordAudit stores one audit entry for an administrative action. Failures
// are logged and swallowed so auditing never blocks the action itself.
func RecordAudit(ctx *appcontext.Context, action string, actorID uuid.UUID, targetEmail string, detail string) {
	entry := entity.AuditEntry{
		Action:      action,
		ActorID:     actorID,
		TargetEmail: targetEmail,
		Detail:      detail,
	}
	if err := ctx.DB.Create(&entry).Error; err != nil {
		ctx.Logger.Warn("Failed to record audit entry", zap.Error(err), zap.String("action", action))
	}
}
