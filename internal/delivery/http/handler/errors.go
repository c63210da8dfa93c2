package handler

import (
	"errors"
	"net/http"

	"auth-backend/internal/logger"
	"auth-backend/internal/middleware"
	appErrors "auth-backend/pkg/errors"
	"auth-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statusByCode = map[string]int{
	appErrors.CodeValidation:         http.StatusBadRequest,
	appErrors.CodeUniqueness:         http.StatusConflict,
	appErrors.CodeNotFound:           http.StatusNotFound,
	appErrors.CodeInvalidCredentials: http.StatusUnauthorized,
	appErrors.CodeInvalidToken:       http.StatusBadRequest,
	appErrors.CodeUpstreamAuth:       http.StatusBadGateway,
	appErrors.CodePersistence:        http.StatusInternalServerError,
	appErrors.CodeConfiguration:      http.StatusInternalServerError,
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		status, ok := statusByCode[appErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		if status >= http.StatusInternalServerError {
			logInternalError(c, err)
		}
		_ = c.Error(err)
		utils.ErrorResponse(c, status, appErr.Message)
		return
	}

	logInternalError(c, err)
	_ = c.Error(err)
	utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}

func logInternalError(c *gin.Context, err error) {
	logger.Error("Internal server error",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
}
