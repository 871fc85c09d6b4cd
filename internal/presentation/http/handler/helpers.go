package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/middleware"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/clock"
)

const dateLayout = "2006-01-02"

// Field errors name the JSON key the client sent, not the Go field
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	return c.GetStringSlice(middleware.ContextRoles)
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	for _, role := range GetUserRoles(c) {
		if role == entity.RoleAdmin {
			return true
		}
	}
	return false
}

// requireUser writes a 401 and returns false when the request is not authenticated
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// uuidParam parses a path parameter, answering 400 when it is malformed
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the body and answers 422 with per-field messages on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, bindingError(err))
		return false
	}
	return true
}

// bindQuery binds query parameters, answering 400 on failure
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewBadRequestError("Invalid request body")
	}
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   toSnake(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return apperror.NewValidationError(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseEnum converts a state or type name, collecting a field error when it is unknown
func parseEnum[T any](value, field string, parse func(string) (T, bool), errs *[]apperror.FieldError) *T {
	if value == "" {
		return nil
	}
	v, ok := parse(value)
	if !ok {
		*errs = append(*errs, apperror.FieldError{Field: field, Message: "unknown value " + value})
		return nil
	}
	return &v
}

// parseDateRange reads from/to (YYYY-MM-DD) as business days. The range is half-open.
func parseDateRange(from, to string, loc *time.Location, errs *[]apperror.FieldError) (*time.Time, *time.Time) {
	var start, end *time.Time
	if from != "" {
		d, err := time.ParseInLocation(dateLayout, from, loc)
		if err != nil {
			*errs = append(*errs, apperror.FieldError{Field: "from", Message: "must be YYYY-MM-DD"})
		} else {
			s, _ := clock.DayBounds(d, loc)
			start = &s
		}
	}
	if to != "" {
		d, err := time.ParseInLocation(dateLayout, to, loc)
		if err != nil {
			*errs = append(*errs, apperror.FieldError{Field: "to", Message: "must be YYYY-MM-DD"})
		} else {
			_, e := clock.DayBounds(d, loc)
			end = &e
		}
	}
	return start, end
}
