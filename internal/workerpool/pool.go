package workerpool

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"learnweave/internal/logger"
	"learnweave/internal/models"
	"learnweave/internal/repositories"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NotifyWorker consumes notification fan-out jobs from a redis stream so
// challenge submission does not block on the notification write.
type NotifyWorker struct {
	id            string
	quit          chan bool
	rdb           *redis.Client
	stream        string
	group         string
	notifications repositories.NotificationRepository
}

func NewNotifyWorker(id string, rdb *redis.Client, stream, group string,
	notifications repositories.NotificationRepository) *NotifyWorker {
	return &NotifyWorker{
		id:            id,
		quit:          make(chan bool),
		rdb:           rdb,
		stream:        stream,
		group:         group,
		notifications: notifications,
	}
}

func (w *NotifyWorker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-w.quit:
				return
			default:
				entries, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
					Group:    w.group,
					Consumer: w.id,
					Streams:  []string{w.stream, ">"},
					Count:    1,
					Block:    5 * time.Second,
				}).Result()

				if err != nil {
					if err != redis.Nil {
						logger.Log.Error("Redis operation failed",
							zap.String("worker_id", w.id),
							zap.Error(err))
					}
					continue
				}

				for _, stream := range entries {
					for _, msg := range stream.Messages {
						w.processNotifyJob(ctx, msg)
					}
				}
			}
		}
	}()
}

func (w *NotifyWorker) Stop() {
	logger.Log.Info("Closing worker",
		zap.String("worker_id", w.id))
	w.quit <- true
	close(w.quit)
}

func (w *NotifyWorker) processNotifyJob(ctx context.Context, msg redis.XMessage) {
	logger.Log.Info("Processing notification job",
		zap.String("worker_id", w.id),
		zap.String("job_id", msg.ID))

	if err := w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err(); err != nil {
		logger.Log.Error("Failed to acknowledge job",
			zap.String("worker_id", w.id),
			zap.Error(err))
	}

	notification, err := notificationFromMessage(msg)
	if err != nil {
		logger.Log.Error("Invalid notification job payload",
			zap.String("worker_id", w.id),
			zap.Any("values", msg.Values),
			zap.Error(err))
		return
	}

	if err := w.notifications.Create(ctx, notification); err != nil {
		logger.Log.Error("Failed to store notification",
			zap.String("worker_id", w.id),
			zap.Error(err))
		return
	}

	logger.Log.Info("Finished processing notification job",
		zap.String("worker_id", w.id),
		zap.String("job_id", msg.ID),
		zap.Int64("notification_id", notification.ID))
}

func notificationFromMessage(msg redis.XMessage) (*models.Notification, error) {
	message, ok := msg.Values["message"].(string)
	if !ok || message == "" {
		return nil, fmt.Errorf("missing message field")
	}

	createdByStr, ok := msg.Values["created_by"].(string)
	if !ok {
		return nil, fmt.Errorf("missing created_by field")
	}
	createdBy, err := strconv.ParseInt(createdByStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid created_by field: %w", err)
	}

	notification := &models.Notification{
		Message:   message,
		CreatedBy: createdBy,
		Type:      models.NotificationTypeChallengeSubmission,
	}

	if typ, ok := msg.Values["type"].(string); ok && typ != "" {
		notification.Type = typ
	}

	if challengeIDStr, ok := msg.Values["challenge_id"].(string); ok && challengeIDStr != "" {
		challengeID, err := strconv.ParseInt(challengeIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid challenge_id field: %w", err)
		}
		notification.ChallengeID = &challengeID
	}

	return notification, nil
}

type NotifyWorkerPool struct {
	workers       []*NotifyWorker
	numWorkers    int
	rdb           *redis.Client
	stream        string
	group         string
	notifications repositories.NotificationRepository
}

func NewNotifyWorkerPool(numWorkers int, rdb *redis.Client, stream, group string,
	notifications repositories.NotificationRepository) *NotifyWorkerPool {
	return &NotifyWorkerPool{
		workers:       make([]*NotifyWorker, numWorkers),
		numWorkers:    numWorkers,
		rdb:           rdb,
		stream:        stream,
		group:         group,
		notifications: notifications,
	}
}

func (p *NotifyWorkerPool) Start(ctx context.Context) error {
	// Create consumer group if it doesn't exist
	_, err := p.rdb.XGroupCreateMkStream(ctx, p.stream, p.group, "$").Result()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for i := 0; i < p.numWorkers; i++ {
		worker := NewNotifyWorker(
			fmt.Sprintf("NotifyWorker-%d", i+1),
			p.rdb,
			p.stream,
			p.group,
			p.notifications,
		)

		worker.Start(ctx)
		p.workers[i] = worker

		logger.Log.Info("Starting notify worker",
			zap.String("worker_id", worker.id))
	}

	logger.Log.Info("Notify worker pool started",
		zap.Int("num_workers", p.numWorkers))

	return nil
}

func (p *NotifyWorkerPool) Stop() {
	for _, worker := range p.workers {
		worker.Stop()
	}
}
