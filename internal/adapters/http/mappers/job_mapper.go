package mappers

import (
	"github.com/architeacher/svc-trip-planner/internal/adapters/http/handlers"
	"github.com/architeacher/svc-trip-planner/internal/domain"
)

// JobToResponse renders a job document. Stages are listed in pipeline order
// and only once they have been reported.
func JobToResponse(job *domain.Job) handlers.JobResponse {
	resp := handlers.JobResponse{
		JobId:       job.ID,
		Origin:      job.Origin,
		Destination: job.Destination,
		Status:      DomainJobStatusToHandler(job.Status),
		Stages:      make([]handlers.StageState, 0, len(job.Stages)),
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		CompletedAt: job.CompletedAt,
	}

	if job.Error != "" {
		resp.Error = &job.Error
	}

	for _, stage := range domain.Stages {
		state, ok := job.Stages[stage]
		if !ok {
			continue
		}

		item := handlers.StageState{
			Stage:      handlers.StageStateStage(stage),
			Status:     handlers.StageStateStatus(state.Status),
			ReportedAt: state.ReportedAt,
		}

		if state.Detail != "" {
			item.Detail = &state.Detail
		}

		resp.Stages = append(resp.Stages, item)
	}

	return resp
}

// HealthToResponse renders a health report.
func HealthToResponse(result *domain.HealthResult) handlers.HealthResponse {
	return handlers.HealthResponse{
		Status: DomainHealthStatusToHandler(result.OverallStatus),
		Uptime: &result.Uptime,
		Checks: handlers.HealthResponseChecks{
			Storage: dependencyCheck(result.Storage),
			Cache:   dependencyCheck(result.Cache),
			Queue:   dependencyCheck(result.Queue),
		},
	}
}

func dependencyCheck(status domain.DependencyStatus) handlers.DependencyCheck {
	check := handlers.DependencyCheck{
		Status:       DomainDependencyStatusToHandler(status.Status),
		ResponseTime: &status.ResponseTime,
	}

	if !status.LastChecked.IsZero() {
		check.LastChecked = &status.LastChecked
	}

	if status.Error != "" {
		check.Error = &status.Error
	}

	return check
}
