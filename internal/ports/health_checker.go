//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package ports

import (
	"context"

	"github.com/architeacher/svc-trip-planner/internal/domain"
)

//counterfeiter:generate -o ../mocks/health_checker.go . HealthChecker

type HealthChecker interface {
	CheckHealth(ctx context.Context) *domain.HealthResult
}
