package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"reviewhub/internal/logging"
	"reviewhub/internal/middleware"
	"reviewhub/internal/services"
	"reviewhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

func init() {
	// Report validation failures with the JSON field names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// base carries what every handler needs to shape error responses.
type base struct {
	devMode bool
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as {"message": ...}. Internal failures are logged and only
// expose their detail in development mode.
func (b base) fail(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("request timed out")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Request timed out"})
		return
	}

	var se *services.Error
	if !errors.As(err, &se) {
		se = &services.Error{Kind: services.KindInternal, Message: "Something went wrong!", Err: err}
	}

	status := statusFor(se.Kind)
	if status < http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, gin.H{"message": se.Message})
		return
	}

	_ = c.Error(err)
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(se.Message)
	body := gin.H{"message": se.Message}
	if b.devMode {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": message})
}

// bindJSON decodes the body into req and answers 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large"})
			return false
		}
		badRequest(c, bindErrorMessage(err))
		return false
	}
	return true
}

func bindErrorMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "email":
			return fe.Field() + " must be a valid email address"
		case "max":
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fe.Field() + " is invalid"
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field + " has an invalid type"
	}
	return "Invalid request body"
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name, label string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		badRequest(c, "Invalid "+label+" id")
		return 0, false
	}
	return id, true
}

// currentUserID is only called behind middleware.AuthRequired.
func currentUserID(c *gin.Context) uint {
	id, _ := middleware.CurrentIdentity(c)
	return id.UserID
}
