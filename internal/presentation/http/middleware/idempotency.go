package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo  repository.IdempotencyRepository
	Clock clock.Clock
	TTL   time.Duration
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a client retries a POST with the same
// Idempotency-Key, so a retried order or receipt is not created twice. Requests without
// a key pass through. Reusing a key with a different body is rejected.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Clock == nil {
		cfg.Clock = clock.New(time.UTC)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = IdempotencyKeyTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(key) > 255 {
			response.Error(c, apperror.NewFieldValidationError(IdempotencyKeyHeader, "must be at most 255 characters"))
			c.Abort()
			return
		}

		userID, ok := c.Get(ContextUserID)
		uid, isUUID := userID.(uuid.UUID)
		if !ok || !isUUID {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Could not read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		hash := hex.EncodeToString(sum[:])

		ctx := c.Request.Context()
		now := cfg.Clock.Now()
		endpoint := c.Request.Method + " " + c.FullPath()
		existing, err := cfg.Repo.Find(ctx, uid, endpoint, key)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if existing != nil {
			if !existing.IsExpired(now) {
				if existing.RequestHash != hash {
					response.Error(c, apperror.NewConflictError("Idempotency-Key was already used with a different request"))
					c.Abort()
					return
				}
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
				c.Abort()
				return
			}
			if err := cfg.Repo.DeleteExpired(ctx, now); err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// only successful outcomes are replayed; failed requests may be retried
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		record := &entity.IdempotencyKey{
			Key:          key,
			UserID:       uid,
			Endpoint:     endpoint,
			RequestHash:  hash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			CreatedAt:    now,
			ExpiresAt:    now.Add(cfg.TTL),
		}
		if err := cfg.Repo.Save(ctx, record); err != nil {
			logger.FromContext(ctx).Warn("store idempotency key", zap.String("key", key), zap.Error(err))
		}
	}
}
