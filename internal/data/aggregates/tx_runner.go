package aggregates

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
)

// TxRunner is the transaction boundary shared by aggregate writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// GormTxRunner opens one gorm transaction per InTx call.
type GormTxRunner struct {
	DB   *gorm.DB
	// Opts is passed to every transaction; nil keeps the driver default isolation.
	Opts *sql.TxOptions
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &GormTxRunner{DB: db}
}

func (r *GormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	switch {
	case fn == nil:
		return nil
	case r == nil || r.DB == nil:
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database configured for booking writes", nil)
	}
	run := func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	}
	if r.Opts != nil {
		return r.DB.WithContext(ctx).Transaction(run, r.Opts)
	}
	return r.DB.WithContext(ctx).Transaction(run)
}
