package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
)

// RespondWithError aborts with err's status and JSON body. Errors without an
// *AppError become a 500. 5xx responses are logged together with the cause,
// which is never sent to the client.
func RespondWithError(c *gin.Context, err error) {
	e := apperrors.Wrap(err)
	if e.HTTPStatus >= http.StatusInternalServerError {
		log := logger.GetGlobalLogger().WithContext(c.Request.Context())
		log.Error("request failed", logger.MergeWithError(logger.Fields(
			logger.FieldErrorCode, string(e.Code),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		), err))
	}
	c.AbortWithStatusJSON(e.HTTPStatus, e.ToResponse())
}

// RespondOK writes data as a 200 JSON body.
func RespondOK(c *gin.Context, data any) { c.JSON(http.StatusOK, data) }
