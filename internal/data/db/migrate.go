package db

import (
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Customers
		// =========================
		&types.Customer{},

		// =========================
		// Booking (subscriptions + jobs with frozen pricing)
		// =========================
		&types.Subscription{},
		&types.Job{},

		// =========================
		// Time tracking
		// =========================
		&types.TimeLog{},
	)
}
