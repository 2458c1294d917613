package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/tidyhome-backend/internal/app"
	"github.com/yungbote/tidyhome-backend/internal/scheduler"
)

// plan_recurring books upcoming occurrences for every active subscription once
// and exits. It is the cron-less counterpart of the in-process planner.
func main() {
	var horizonDays int
	var seedDemo bool
	flag.IntVar(&horizonDays, "horizon-days", 0, "book occurrences up to this many days ahead (default SCHEDULER_HORIZON_DAYS)")
	flag.BoolVar(&seedDemo, "seed", false, "insert demo data first when the database is empty")
	flag.Parse()

	ctx := context.Background()
	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if seedDemo {
		seeded, err := application.Services.Seeder.Run(ctx)
		if err != nil {
			fmt.Printf("seed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("seeded=%v\n", seeded)
	}

	cfg := application.Cfg.Scheduler
	cfg.Enabled = true
	if horizonDays > 0 {
		cfg.HorizonDays = horizonDays
	}
	planner := scheduler.NewPlanner(
		cfg,
		application.Log,
		application.Repos.Subscription,
		application.Repos.Job,
		application.Services.Job,
		application.Metrics,
	)
	res, err := planner.RunOnce(ctx)
	if err != nil {
		fmt.Printf("plan: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("subscriptions=%d booked=%d failed=%d\n", res.Subscriptions, res.Booked, res.Failed)
}
