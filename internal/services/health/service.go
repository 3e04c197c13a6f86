package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports overall service health and the database connection state.
// The bool is false when a configured database cannot be reached.
func (s *Service) Status(ctx context.Context) (map[string]string, bool) {
	database := "not_configured"
	healthy := true

	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			database = "disconnected"
			healthy = false
		} else {
			database = "connected"
		}
	}

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	return map[string]string{
		"status":   status,
		"database": database,
	}, healthy
}
