package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

type Repos struct {
	Customer     repos.CustomerRepo
	Subscription repos.SubscriptionRepo
	Job          repos.JobRepo
	TimeLog      repos.TimeLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Customer:     repos.NewCustomerRepo(db, log),
		Subscription: repos.NewSubscriptionRepo(db, log),
		Job:          repos.NewJobRepo(db, log),
		TimeLog:      repos.NewTimeLogRepo(db, log),
	}
}
