package services

import (
	"context"
	"time"

	"github.com/hspware/hospital_billing_app/internal/core/domain"
)

// TokenSvcFacade handles access token generation for authenticated staff.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a new JWT access token for the given user,
	// returning the token and its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
