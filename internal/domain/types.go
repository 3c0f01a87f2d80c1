package domain

import (
	"time"
)

type (
	// DependencyStatus represents the health status of a dependency
	DependencyStatus struct {
		Status       DependencyCheckStatus
		ResponseTime float32
		LastChecked  time.Time
		Error        string
	}

	// HealthResult contains comprehensive health check results
	HealthResult struct {
		OverallStatus HealthResponseStatus
		Storage       DependencyStatus
		Cache         DependencyStatus
		Queue         DependencyStatus
		Uptime        float32
	}
)
