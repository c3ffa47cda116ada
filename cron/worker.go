package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"parkly/config"
	"parkly/models"
	"parkly/services/booking"

	"github.com/hibiken/asynq"
)

// Task types for booking lifecycle transitions.
const (
	TypeBookingStart    = "booking:start"
	TypeBookingComplete = "booking:complete"
)

// lifecyclePayload carries the booking a deferred transition applies to.
type lifecyclePayload struct {
	BookingID string `json:"bookingId"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLifecycleDB,
	}
}

// LifecycleScheduler enqueues the deferred status transitions for a
// confirmed booking. Implements booking.LifecycleScheduler.
type LifecycleScheduler struct {
	client *asynq.Client
}

// NewLifecycleScheduler creates a scheduler backed by the lifecycle queue.
func NewLifecycleScheduler() *LifecycleScheduler {
	return &LifecycleScheduler{client: asynq.NewClient(redisOpts())}
}

// ScheduleTransitions enqueues the start task at windowStart and the
// completion task at windowEnd. The worker's CAS transitions make a
// stale task against a cancelled booking harmless.
func (s *LifecycleScheduler) ScheduleTransitions(b *models.Booking) error {
	payload, err := json.Marshal(lifecyclePayload{BookingID: b.ID})
	if err != nil {
		return fmt.Errorf("failed to marshal lifecycle payload: %w", err)
	}

	startTask := asynq.NewTask(TypeBookingStart, payload)
	if _, err := s.client.Enqueue(startTask, asynq.ProcessAt(b.WindowStart)); err != nil {
		return fmt.Errorf("failed to enqueue start task: %w", err)
	}

	completeTask := asynq.NewTask(TypeBookingComplete, payload)
	if _, err := s.client.Enqueue(completeTask, asynq.ProcessAt(b.WindowEnd)); err != nil {
		return fmt.Errorf("failed to enqueue complete task: %w", err)
	}
	return nil
}

// InitLifecycleWorker runs the async worker in background.
func InitLifecycleWorker(coordinator booking.Coordinator) {
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
	mux.HandleFunc(TypeBookingStart, handleTransition(coordinator, TypeBookingStart))
	mux.HandleFunc(TypeBookingComplete, handleTransition(coordinator, TypeBookingComplete))

	// Start async worker with retry logic
	go func() {
		log.Println("[LifecycleWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[LifecycleWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[LifecycleWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleTransition(coordinator booking.Coordinator, taskType string) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p lifecyclePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[LifecycleWorker] invalid payload: %v", err)
			return err
		}

		var err error
		switch taskType {
		case TypeBookingStart:
			err = coordinator.StartBooking(ctx, p.BookingID)
		case TypeBookingComplete:
			err = coordinator.CompleteBooking(ctx, p.BookingID)
		}
		if err != nil {
			log.Printf("[LifecycleWorker] transition %s failed for booking %s: %v", taskType, p.BookingID, err)
		}
		return err
	}
}
