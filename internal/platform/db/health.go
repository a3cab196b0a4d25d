package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthPingTimeout = 3 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnStats is the pool section of the /health/db response.
type ConnStats struct {
	Total    int32 `json:"total"`
	Idle     int32 `json:"idle"`
	InUse    int32 `json:"in_use"`
	Max      int32 `json:"max"`
	Acquired int64 `json:"acquired_total"`
}

func connStats(pool *pgxpool.Pool) *ConnStats {
	s := pool.Stat()
	return &ConnStats{
		Total:    s.TotalConns(),
		Idle:     s.IdleConns(),
		InUse:    s.AcquiredConns(),
		Max:      s.MaxConns(),
		Acquired: s.AcquireCount(),
	}
}

type healthResponse struct {
	Status      string     `json:"status"`
	Database    string     `json:"database"`
	Error       string     `json:"error,omitempty"`
	Connections *ConnStats `json:"connections,omitempty"`
}

// LivenessHandler answers the process health probe. It does not touch the
// database.
func LivenessHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

// HealthHandler pings the database and reports 503 when it is unreachable.
// Pool statistics are included when p is a *pgxpool.Pool.
func HealthHandler(p Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Database: "up"}
		if pool, ok := p.(*pgxpool.Pool); ok && pool != nil {
			resp.Connections = connStats(pool)
		}

		if err := p.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "down"
			resp.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
		return c.JSON(http.StatusOK, resp)
	}
}
