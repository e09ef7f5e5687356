package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"carematch/config"
	"carematch/database/repository"
	"carematch/models"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeMatchJournal = "journal:match"

// matchJournalPayload is the queued record of one match run.
type matchJournalPayload struct {
	ResponseID string                    `json:"response_id"`
	TopID      string                    `json:"top_id"`
	TopName    string                    `json:"top_name"`
	TopScore   float64                   `json:"top_score"`
	Alts       models.AlternativeSummary `json:"alternatives"`
}

// JournalClient enqueues match outcomes for background persistence.
type JournalClient struct {
	client *asynq.Client
}

// NewJournalClient connects an enqueue-only asynq client.
func NewJournalClient() *JournalClient {
	return &JournalClient{
		client: asynq.NewClient(redisOpts()),
	}
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisJobDB,
	}
}

// RecordMatchRun queues the match outcome for the background worker.
func (j *JournalClient) RecordMatchRun(responseID, topID, topName string, topScore float64, alts models.AlternativeSummary) error {
	payload, err := json.Marshal(matchJournalPayload{
		ResponseID: responseID,
		TopID:      topID,
		TopName:    topName,
		TopScore:   topScore,
		Alts:       alts,
	})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeMatchJournal, payload)
	_, err = j.client.Enqueue(task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	return err
}

// InitMatchJournalWorker runs the async worker in background.
func InitMatchJournalWorker(clients repository.ClientRepository) {
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
	mux.HandleFunc(TypeMatchJournal, handleMatchJournalTask(clients))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[MatchJournalWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[MatchJournalWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[MatchJournalWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleMatchJournalTask(clients repository.ClientRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p matchJournalPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[MatchJournalHandler] invalid payload: %v", err)
			return err
		}

		if err := clients.RecordSuggestions(p.ResponseID, p.TopID, p.TopName, p.TopScore, p.Alts); err != nil {
			log.Printf("[MatchJournalHandler] failed to store suggestions for %s: %v", p.ResponseID, err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisJobDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[MatchJournalWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
