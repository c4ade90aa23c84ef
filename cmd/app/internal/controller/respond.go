package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"vocabtest-backend/internal/service"
	"vocabtest-backend/pkg/middleware"
	"vocabtest-backend/utilities"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func ok(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

// fail maps a service error to its status code and writes the envelope.
// Unknown errors are logged and reported as a generic failure.
func fail(c *gin.Context, err error, internalMsg string) {
	var (
		verr     *service.ValidationError
		nf       *service.NotFoundError
		conflict *service.ConflictError
		empty    *service.EmptySelectionError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, Envelope{Error: verr.Message})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, Envelope{Error: nf.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusBadRequest, Envelope{Error: conflict.Message})
	case errors.As(err, &empty):
		c.JSON(http.StatusBadRequest, Envelope{Error: empty.Error()})
	default:
		utilities.Error("%s %s [%s]: %v", c.Request.Method, c.Request.URL.Path, c.GetString(middleware.RequestIDKey), err)
		c.JSON(http.StatusInternalServerError, Envelope{Error: internalMsg})
	}
}

// bind decodes the JSON body into dst. Decoding and validation failures
// become a ValidationError.
func bind(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return &service.ValidationError{Message: bindMessage(err)}
	}
	return nil
}

func bindQuery(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return &service.ValidationError{Message: bindMessage(err)}
	}
	return nil
}

func bindMessage(err error) string {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		numErr    *strconv.NumError
	)
	switch {
	case errors.As(err, &verrs):
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	case errors.As(err, &typeErr):
		return fmt.Sprintf("Field %s has the wrong type", typeErr.Field)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "Malformed JSON body"
	case errors.Is(err, io.EOF):
		return "Request body is required"
	case errors.As(err, &numErr):
		return fmt.Sprintf("Invalid number %q", numErr.Num)
	}
	return "Invalid request"
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Namespace()
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
}

func parseID(c *gin.Context, param string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || n == 0 {
		return 0, &service.ValidationError{Message: fmt.Sprintf("Invalid %s", param)}
	}
	return uint(n), nil
}
