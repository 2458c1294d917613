package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
)

// StatusGuard applies status-conditioned updates. A row whose status moved
// since it was read is left untouched and reported as not applied.
type StatusGuard struct {
	db *gorm.DB
}

func NewStatusGuard(db *gorm.DB) StatusGuard {
	return StatusGuard{db: db}
}

func (g StatusGuard) conn(dbc dbctx.Context) *gorm.DB {
	switch {
	case dbc.Tx != nil:
		return dbc.Tx.WithContext(dbc.Ctx)
	case g.db != nil:
		return g.db.WithContext(dbc.Ctx)
	default:
		return nil
	}
}

// Advance updates the row of model's table with the given id while its status is one of from.
func (g StatusGuard) Advance(dbc dbctx.Context, model schema.Tabler, id uuid.UUID, from []string, updates map[string]any) (bool, error) {
	db := g.conn(dbc)
	if db == nil {
		return false, ValidationError("no transaction for status update")
	}
	if model == nil || id == uuid.Nil || len(from) == 0 {
		return false, ValidationError("status update needs a table, an id and at least one source status")
	}
	res := db.Table(model.TableName()).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RequireApplied turns a status update that matched no row into a conflict.
func RequireApplied(applied bool, what string) error {
	if applied {
		return nil
	}
	return ConflictError(strings.TrimSpace(what) + " changed concurrently")
}

// RequireStatusAllowed rejects transitions out of a status not in allowed.
func RequireStatusAllowed(current string, allowed ...string) error {
	if len(allowed) == 0 {
		return ValidationError("no source statuses given")
	}
	current = strings.TrimSpace(current)
	for _, s := range allowed {
		if strings.EqualFold(current, s) {
			return nil
		}
	}
	return InvariantError("status transition not allowed from " + current)
}
