package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether every backing store answered its probe.
func (s HealthStatus) Healthy() bool {
	return s.Mongo && s.Redis
}

// CheckHealth probes the backing stores. Each probe gets a short
// deadline so the endpoint stays responsive when a store is down.
func CheckHealth(mongoClient *mongo.Client, redisClient *redis.Client) HealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return HealthStatus{
		Mongo:     mongoClient.Ping(ctx, nil) == nil,
		Redis:     redisClient.Ping(ctx).Err() == nil,
		CheckedAt: time.Now(),
	}
}
