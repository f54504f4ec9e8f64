// Package apierror turns platform API failures into user-facing messages with a category
// and a retry hint.
package apierror

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/noah-isme/academy-admin/pkg/apiclient"
)

// Type classifies a failure for display.
type Type string

const (
	TypeNetwork    Type = "network"
	TypeValidation Type = "validation"
	TypeAuth       Type = "auth"
	TypeServer     Type = "server"
	TypeUnknown    Type = "unknown"
)

// Info is the normalized description of a failure.
type Info struct {
	Message  string `json:"message"`
	Type     Type   `json:"type"`
	CanRetry bool   `json:"canRetry"`
}

const (
	msgUnreachable  = "تعذر الاتصال بالخادم. يرجى التحقق من اتصال الإنترنت والمحاولة مرة أخرى."
	msgBadInput     = "البيانات المدخلة غير صحيحة. يرجى المراجعة والمحاولة مرة أخرى."
	msgSessionEnded = "انتهت صلاحية جلسة العمل. يرجى تسجيل الدخول مرة أخرى."
	msgForbidden    = "ليس لديك صلاحية للوصول إلى هذا المورد."
	msgNotFound     = "المورد المطلوب غير موجود."
	msgInvalidInput = "البيانات المدخلة غير صالحة. يرجى التحقق من المعلومات."
	msgRateLimited  = "تم تجاوز عدد المحاولات المسموحة. يرجى الانتظار قليلاً والمحاولة مرة أخرى."
	msgServerError  = "حدث خطأ في الخادم. يرجى المحاولة لاحقاً."
	msgUnavailable  = "الخادم غير متاح حالياً. يرجى المحاولة لاحقاً."
	msgUnexpected   = "حدث خطأ غير متوقع. يرجى المحاولة مرة أخرى."
	msgTimedOut     = "انتهت مهلة الطلب. يرجى المحاولة مرة أخرى."
	msgNoConnection = "تعذر الاتصال بالخادم. يرجى التحقق من اتصال الإنترنت."
)

// Handle classifies err. Client errors are classified by status; anything else is
// inspected for timeouts and connection failures before falling back to unknown.
func Handle(err error) Info {
	if err == nil {
		return Info{Message: msgUnexpected, Type: TypeUnknown, CanRetry: true}
	}
	if apiErr, ok := apiclient.AsError(err); ok {
		return fromStatus(apiErr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Info{Message: msgTimedOut, Type: TypeNetwork, CanRetry: true}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return Info{Message: msgTimedOut, Type: TypeNetwork, CanRetry: true}
		}
		return Info{Message: msgNoConnection, Type: TypeNetwork, CanRetry: true}
	}

	return Info{Message: orDefault(err.Error(), msgUnexpected), Type: TypeUnknown, CanRetry: true}
}

func fromStatus(e *apiclient.Error) Info {
	switch e.Status {
	case 0:
		return Info{Message: msgUnreachable, Type: TypeNetwork, CanRetry: true}
	case http.StatusBadRequest:
		return Info{Message: orDefault(e.Message, msgBadInput), Type: TypeValidation, CanRetry: true}
	case http.StatusUnauthorized:
		return Info{Message: msgSessionEnded, Type: TypeAuth, CanRetry: false}
	case http.StatusForbidden:
		return Info{Message: msgForbidden, Type: TypeAuth, CanRetry: false}
	case http.StatusNotFound:
		return Info{Message: msgNotFound, Type: TypeServer, CanRetry: false}
	case http.StatusUnprocessableEntity:
		return Info{Message: msgInvalidInput, Type: TypeValidation, CanRetry: true}
	case http.StatusTooManyRequests:
		return Info{Message: msgRateLimited, Type: TypeServer, CanRetry: true}
	case http.StatusInternalServerError:
		return Info{Message: msgServerError, Type: TypeServer, CanRetry: true}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return Info{Message: msgUnavailable, Type: TypeServer, CanRetry: true}
	default:
		return Info{Message: orDefault(e.Message, msgUnexpected), Type: TypeUnknown, CanRetry: true}
	}
}

// ValidationErrors flattens a server-reported error code into a field map for forms.
// It is empty unless the platform sent a machine-readable code.
func ValidationErrors(err error) map[string]string {
	out := map[string]string{}
	var code, message string
	if apiErr, ok := apiclient.AsError(err); ok {
		code, message = apiErr.Code, apiErr.Message
	} else {
		var rejected *apiclient.RejectedError
		if !errors.As(err, &rejected) {
			return out
		}
		code, message = rejected.Code, rejected.Message
	}
	if code == "" {
		return out
	}
	out["general"] = orDefault(code, message)
	return out
}

// Status picks the HTTP status the dashboard answers with for a classified failure.
// Upstream statuses are passed through; status 0 becomes 502 or 504.
func Status(err error, info Info) int {
	if apiErr, ok := apiclient.AsError(err); ok {
		switch {
		case apiErr.Timeout():
			return http.StatusGatewayTimeout
		case apiErr.Status == 0:
			return http.StatusBadGateway
		case apiErr.Status >= 200 && apiErr.Status < 300:
			return http.StatusBadGateway
		default:
			return apiErr.Status
		}
	}
	switch info.Type {
	case TypeNetwork:
		return http.StatusBadGateway
	case TypeUnknown:
		if errors.Is(err, apiclient.ErrRejected) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
