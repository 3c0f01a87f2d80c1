package mappers

import (
	"github.com/architeacher/svc-trip-planner/internal/adapters/http/handlers"
	"github.com/architeacher/svc-trip-planner/internal/domain"
)

func DomainDependencyStatusToHandler(status domain.DependencyCheckStatus) handlers.DependencyCheckStatus {
	switch status {
	case domain.DependencyCheckStatusHealthy:
		return handlers.DependencyCheckStatusHealthy
	case domain.DependencyCheckStatusDegraded:
		return handlers.DependencyCheckStatusDegraded
	case domain.DependencyCheckStatusUnhealthy:
		return handlers.DependencyCheckStatusUnhealthy
	default:
		return handlers.DependencyCheckStatusUnknown
	}
}

func DomainHealthStatusToHandler(status domain.HealthResponseStatus) handlers.HealthResponseStatus {
	switch status {
	case domain.HealthResponseStatusHealthy:
		return handlers.HealthResponseStatusOK
	case domain.HealthResponseStatusDegraded:
		return handlers.HealthResponseStatusDEGRADED
	default:
		return handlers.HealthResponseStatusDOWN
	}
}

func DomainJobStatusToHandler(status domain.JobStatus) handlers.JobResponseStatus {
	switch status {
	case domain.JobStatusInProgress:
		return handlers.JobResponseStatusInProgress
	case domain.JobStatusCompleted:
		return handlers.JobResponseStatusCompleted
	case domain.JobStatusFailed:
		return handlers.JobResponseStatusFailed
	default:
		return handlers.JobResponseStatusPending
	}
}
