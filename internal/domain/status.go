package domain

type (
	DependencyCheckStatus string

	HealthResponseStatus string
)

const (
	DependencyCheckStatusHealthy   DependencyCheckStatus = "healthy"
	DependencyCheckStatusDegraded  DependencyCheckStatus = "degraded"
	DependencyCheckStatusUnhealthy DependencyCheckStatus = "unhealthy"
)

const (
	HealthResponseStatusHealthy   HealthResponseStatus = "healthy"
	HealthResponseStatusDegraded  HealthResponseStatus = "degraded"
	HealthResponseStatusUnhealthy HealthResponseStatus = "unhealthy"
)

// OverallHealth folds dependency checks into one status. Storage and queue are
// required; a failing cache only degrades the service.
func OverallHealth(storage, cache, queue DependencyCheckStatus) HealthResponseStatus {
	switch {
	case storage == DependencyCheckStatusUnhealthy || queue == DependencyCheckStatusUnhealthy:
		return HealthResponseStatusUnhealthy
	case storage != DependencyCheckStatusHealthy || queue != DependencyCheckStatusHealthy || cache != DependencyCheckStatusHealthy:
		return HealthResponseStatusDegraded
	default:
		return HealthResponseStatusHealthy
	}
}
