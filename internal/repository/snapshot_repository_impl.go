package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinic-sync-backend/internal/domain/entity"
	domainRepo "clinic-sync-backend/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CloudSnapshot is the single remote row mirroring the canonical
// document. updated_at is assigned by the database server so all
// clients arbitrate against one clock.
type CloudSnapshot struct {
	ID        string    `gorm:"type:text;primaryKey"`
	Payload   []byte    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CloudSnapshot) TableName() string {
	return "cloud_snapshots"
}

type snapshotRepository struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	documentID  string
	channel     string
}

// NewSnapshotRepository stores snapshots in PostgreSQL and announces
// every push on a Redis pub/sub channel so other devices observe the
// write in real time.
func NewSnapshotRepository(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, documentID, channel string) domainRepo.SnapshotRepository {
	return &snapshotRepository{
		db:          db,
		redisClient: redisClient,
		log:         log,
		documentID:  documentID,
		channel:     channel,
	}
}

func (r *snapshotRepository) Push(ctx context.Context, doc *entity.ClinicDocument) (time.Time, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return time.Time{}, fmt.Errorf("serialize snapshot: %w", err)
	}

	var updatedAt time.Time
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO cloud_snapshots (id, payload, updated_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
		RETURNING updated_at
	`, r.documentID, payload).Scan(&updatedAt).Error
	if err != nil {
		return time.Time{}, fmt.Errorf("upsert snapshot: %w", err)
	}

	if err := r.redisClient.Publish(ctx, r.channel, updatedAt.Format(time.RFC3339Nano)).Err(); err != nil {
		// The snapshot is durable either way; observers fall back to
		// their next notification or manual pull.
		r.log.Warnf("Failed to publish snapshot notification: %+v", err)
	}
	return updatedAt, nil
}

func (r *snapshotRepository) Fetch(ctx context.Context) (*entity.ClinicDocument, time.Time, error) {
	var snap CloudSnapshot
	err := r.db.WithContext(ctx).Where("id = ?", r.documentID).First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, time.Time{}, domainRepo.ErrSnapshotNotFound
		}
		return nil, time.Time{}, fmt.Errorf("fetch snapshot: %w", err)
	}

	var doc entity.ClinicDocument
	if err := json.Unmarshal(snap.Payload, &doc); err != nil {
		return nil, time.Time{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return &doc, snap.UpdatedAt, nil
}

func (r *snapshotRepository) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	pubsub := r.redisClient.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}

	ticks := make(chan struct{}, 1)
	go func() {
		defer close(ticks)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				// Coalesce bursts; one pending tick is enough.
				select {
				case ticks <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ticks, nil
}
