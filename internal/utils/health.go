package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  []Service `json:"services"`
}

type Service struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Pinger is anything the health check can probe besides the database and Redis,
// e.g. the email queue.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Extra   []Pinger
	Timeout time.Duration
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	services := make([]Service, 0, 2+len(h.Extra))
	overallStatus := "healthy"

	probe := func(name string, ping func(context.Context) error) {
		service := Service{Name: name, Status: "up"}
		ctx, cancel := context.WithTimeout(ctx, h.timeout())
		defer cancel()
		if err := ping(ctx); err != nil {
			service.Status = "down"
			service.Message = err.Error()
			overallStatus = "degraded"
		}
		services = append(services, service)
	}

	if h.DB != nil {
		probe("PostgreSQL", func(ctx context.Context) error {
			sqlDB, err := h.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}

	if h.Redis != nil {
		probe("Redis", func(ctx context.Context) error {
			return h.Redis.Ping(ctx).Err()
		})
	}

	for _, p := range h.Extra {
		probe(p.Name(), p.Ping)
	}

	return HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}

func (h *HealthChecker) timeout() time.Duration {
	if h.Timeout > 0 {
		return h.Timeout
	}
	return 2 * time.Second
}
