package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"glowbook/config"
	"glowbook/models"
	"glowbook/services/booking"
	"glowbook/services/notification"
	"glowbook/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitWorker runs the async worker in background: queued emails and delayed
// reconcile sweeps.
func InitWorker(engine booking.ReconciliationEngine, mailer notification.Mailer) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEmailSend, handleEmailTask(mailer))
	mux.HandleFunc(tasks.TypePaymentReconcile, handleReconcileTask(engine))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[Worker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleEmailTask(mailer notification.Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.EmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[EmailHandler] Invalid payload: %v", err)
			return err
		}

		if err := mailer.Send(p); err != nil {
			log.Printf("[EmailHandler] Failed to send email to %s: %v", p.To, err)
			return err
		}
		return nil
	}
}

func handleReconcileTask(engine booking.ReconciliationEngine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReconcilePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReconcileHandler] Invalid payload: %v", err)
			return err
		}

		result, err := engine.Reconcile(ctx, p.Reference)
		if err != nil {
			log.Printf("[ReconcileHandler] Sweep for %s failed: %v", p.Reference, err)
			return err
		}
		log.Printf("[ReconcileHandler] Sweep for %s resolved as %s", p.Reference, result.Status)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Worker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
