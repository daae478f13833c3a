package util

import (
	"campus_erp_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// HandleServiceError maps the error taxonomy onto the response envelope:
// validation/conflict → 400, not found → 404, bulk row errors → 400 with the
// row list in data, anything else → 500.
func HandleServiceError(c *gin.Context, err error) {
	var (
		vErr    *ValidationError
		nfErr   *NotFoundError
		cErr    *ConflictError
		bulkErr *BulkValidationError
	)
	switch {
	case errors.As(err, &bulkErr):
		c.JSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: bulkErr.Error(),
			Data:    gin.H{"errors": bulkErr.Rows},
		})
	case errors.As(err, &vErr):
		BadRequest(c, vErr.Error())
	case errors.As(err, &cErr):
		BadRequest(c, cErr.Error())
	case errors.As(err, &nfErr):
		Error(c, http.StatusNotFound, nfErr.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c)
	default:
		LogInternalError(c, err)
	}
}
