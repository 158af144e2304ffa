package cron

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Skarath13/bloom-sub003/config"
	"github.com/Skarath13/bloom-sub003/services/reminders"
)

const (
	TypeReminderSweep  = "reminder:sweep"
	TypeClaimReconcile = "claims:reconcile"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitSweepWorker runs the async worker and its periodic scheduler in the
// background. Overlap between scheduled sweeps and the HTTP-triggered ones
// is safe: every unit of work is claimed before any side effect.
func InitSweepWorker(sweeper reminders.ReminderSweeper) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSweep, handleReminderSweep(sweeper))
	mux.HandleFunc(TypeClaimReconcile, handleClaimReconcile(sweeper))

	go func() {
		log.Println("[SweepWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runScheduler()
}

// runScheduler enqueues the periodic sweeps.
func runScheduler() {
	scheduler := asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{Location: time.UTC})

	sweepEvery := config.AppConfig.ReminderSweepEvery
	if sweepEvery <= 0 {
		sweepEvery = 15 * time.Minute
	}
	if _, err := scheduler.Register("@every "+sweepEvery.String(), asynq.NewTask(TypeReminderSweep, nil)); err != nil {
		log.Fatalf("[SweepWorker] failed to register reminder sweep: %v", err)
	}
	if _, err := scheduler.Register("@every 10m", asynq.NewTask(TypeClaimReconcile, nil)); err != nil {
		log.Fatalf("[SweepWorker] failed to register claim reconcile: %v", err)
	}

	if err := scheduler.Run(); err != nil {
		log.Fatalf("[SweepWorker] scheduler stopped: %v", err)
	}
}

func handleReminderSweep(sweeper reminders.ReminderSweeper) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		result, err := sweeper.Sweep(ctx)
		if err != nil {
			log.Printf("[SweepWorker] reminder sweep failed: %v", err)
			return err
		}
		for tier, counts := range result.Tiers {
			if counts.Sent+counts.Failed+counts.Skipped > 0 {
				log.Printf("[SweepWorker] tier %s: sent=%d failed=%d skipped=%d", tier, counts.Sent, counts.Failed, counts.Skipped)
			}
		}
		return nil
	}
}

func handleClaimReconcile(sweeper reminders.ReminderSweeper) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		if _, err := sweeper.Reconcile(ctx); err != nil {
			log.Printf("[SweepWorker] claim reconciliation failed: %v", err)
			return err
		}
		return nil
	}
}
