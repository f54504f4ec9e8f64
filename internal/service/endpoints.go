package service

import (
	"net/url"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/pkg/apiclient"
)

// Platform REST endpoints, relative to the configured base URL.
const (
	endpointLogin      = "/api/v1/admin/login"
	endpointLogout     = "/api/v1/admin/logout"
	endpointRefresh    = "/api/v1/admin/refresh"
	endpointProfile    = "/api/v1/admin/profile"
	endpointLeads      = "/api/v1/leads"
	endpointCourses    = "/api/v1/courses"
	endpointCategories = "/api/v1/courses/categories"
)

func resourcePath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// unwrap returns the payload of a successful envelope. Failures are logged under op and
// returned unchanged.
func unwrap[T any](logger *zap.Logger, op string, env *apiclient.Envelope[T], err error, fallback string) (*T, error) {
	if err != nil {
		logger.Warn(op+" failed", zap.Error(err))
		return nil, err
	}
	data, err := apiclient.Payload(env, fallback)
	if err != nil {
		logger.Warn(op+" rejected", zap.Error(err))
		return nil, err
	}
	return data, nil
}

// confirm checks an envelope for operations that return no payload.
func confirm[T any](logger *zap.Logger, op string, env *apiclient.Envelope[T], err error, fallback string) error {
	if err != nil {
		logger.Warn(op+" failed", zap.Error(err))
		return err
	}
	if err := apiclient.Succeeded(env, fallback); err != nil {
		logger.Warn(op+" rejected", zap.Error(err))
		return err
	}
	return nil
}
