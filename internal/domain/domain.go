package domain

import (
	"github.com/yungbote/tidyhome-backend/internal/domain/booking"
	"github.com/yungbote/tidyhome-backend/internal/domain/customer"
	"github.com/yungbote/tidyhome-backend/internal/domain/timeclock"
)

const (
	JobStatusScheduled = booking.JobStatusScheduled
	JobStatusCompleted = booking.JobStatusCompleted
	JobStatusCancelled = booking.JobStatusCancelled

	SubscriptionStatusActive    = booking.SubscriptionStatusActive
	SubscriptionStatusPaused    = booking.SubscriptionStatusPaused
	SubscriptionStatusCancelled = booking.SubscriptionStatusCancelled

	FrequencyOneTime  = booking.FrequencyOneTime
	FrequencyWeekly   = booking.FrequencyWeekly
	FrequencyBiweekly = booking.FrequencyBiweekly
	FrequencyMonthly  = booking.FrequencyMonthly

	DateLayout = booking.DateLayout
)

type Customer = customer.Customer

type Job = booking.Job
type ExtraLine = booking.ExtraLine
type Subscription = booking.Subscription

type TimeLog = timeclock.TimeLog
