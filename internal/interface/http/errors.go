package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
	"github.com/oksasatya/adcart-backend/internal/interface/middleware"
	"github.com/oksasatya/adcart-backend/pkg/response"
	"github.com/oksasatya/adcart-backend/pkg/validation"
)

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an error envelope. Dependency failures are logged with
// the cause; callers only see the kind and message.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	kind := apperror.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"kind":       kind,
		}).Error("request failed")
	}
	response.Error[any](c, status, apperror.MessageOf(err), response.ErrorBody{Kind: string(kind)})
}

// badRequest reports a body that could not be decoded or bound.
func badRequest(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", response.ErrorBody{
		Kind:    string(apperror.KindValidation),
		Details: validation.ToDetails(err),
	})
}

func callerID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}
