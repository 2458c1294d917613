package repos

import (
	"github.com/yungbote/tidyhome-backend/internal/data/repos/booking"
	"github.com/yungbote/tidyhome-backend/internal/data/repos/customer"
	"github.com/yungbote/tidyhome-backend/internal/data/repos/timeclock"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CustomerRepo = customer.CustomerRepo

type SubscriptionRepo = booking.SubscriptionRepo
type JobRepo = booking.JobRepo

type TimeLogRepo = timeclock.TimeLogRepo

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	return customer.NewCustomerRepo(db, baseLog)
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return booking.NewSubscriptionRepo(db, baseLog)
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return booking.NewJobRepo(db, baseLog)
}

func NewTimeLogRepo(db *gorm.DB, baseLog *logger.Logger) TimeLogRepo {
	return timeclock.NewTimeLogRepo(db, baseLog)
}
