package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

const serviceName = "kente-storefront-api"

type HealthHandler struct {
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	amqpConn    *amqp.Connection
}

func NewHealthHandler(dbPool *pgxpool.Pool, redisClient *redis.Client, amqpConn *amqp.Connection) *HealthHandler {
	return &HealthHandler{dbPool: dbPool, redisClient: redisClient, amqpConn: amqpConn}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": serviceName, "status": "ok"})
}

// Readyz probes every dependency and reports them all, so a deploy with two
// broken backends does not need two rollouts to find out.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{"postgres": "ok", "redis": "ok", "rabbitmq": "ok"}
	ready := true

	if err := h.dbPool.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		ready = false
	}
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		ready = false
	}
	if h.amqpConn.IsClosed() {
		checks["rabbitmq"] = "connection closed"
		ready = false
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"service": serviceName, "ready": ready, "checks": checks})
}
