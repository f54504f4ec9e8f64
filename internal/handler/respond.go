package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/academy-admin/internal/apierror"
	"github.com/noah-isme/academy-admin/internal/middleware"
	"github.com/noah-isme/academy-admin/internal/session"
	"github.com/noah-isme/academy-admin/internal/validation"
	"github.com/noah-isme/academy-admin/pkg/apiclient"
	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
	"github.com/noah-isme/academy-admin/pkg/response"
)

// respondError writes err as a failure envelope. Platform failures go through the error
// normalizer so the browser gets a localized message and a retry hint; dashboard errors
// keep their own code and status.
func respondError(c *gin.Context, err error) {
	_, upstream := apiclient.AsError(err)
	if !upstream && !errors.Is(err, apiclient.ErrRejected) {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			response.Error(c, appErr)
			return
		}
	}
	info := apierror.Handle(err)
	meta := map[string]interface{}{"canRetry": info.CanRetry}
	if fields := apierror.ValidationErrors(err); len(fields) > 0 {
		meta["errors"] = fields
	}
	response.Failure(c, apierror.Status(err, info), info.Message, string(info.Type), meta)
}

// respondInvalid writes a 400 envelope listing field errors.
func respondInvalid(c *gin.Context, fields []validation.FieldError) {
	response.Failure(c, http.StatusBadRequest, appErrors.ErrValidation.Message, appErrors.ErrValidation.Code, map[string]interface{}{
		"errors": fields,
	})
}

// bindJSON decodes the request body, answering 400 when it is malformed.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return false
	}
	return true
}

// bindValid decodes the body and runs struct validation on it.
func bindValid(c *gin.Context, v *validator.Validate, dst interface{}) bool {
	if !bindJSON(c, dst) {
		return false
	}
	if err := v.Struct(dst); err != nil {
		if fields := validation.FromValidator(err); len(fields) > 0 {
			respondInvalid(c, fields)
			return false
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "validation failed"))
		return false
	}
	return true
}

// workspace returns the visitor workspace or answers 401.
func workspace(c *gin.Context) (*session.Workspace, bool) {
	ws, ok := middleware.WorkspaceFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrSessionMissing)
		return nil, false
	}
	return ws, true
}
