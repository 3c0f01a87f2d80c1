package domain

import (
	"time"

	"github.com/google/uuid"
)

type (
	// PlanTrip asks the route planner to start working on a job.
	PlanTrip struct {
		JobID       uuid.UUID `json:"job_id"`
		Origin      string    `json:"origin"`
		Destination string    `json:"destination"`
		Email       string    `json:"email"`
		RequestedAt time.Time `json:"requested_at"`
	}

	// JobStageReported is published by every pipeline stage once it is done with a job.
	JobStageReported struct {
		JobID      uuid.UUID `json:"job_id"`
		Stage      Stage     `json:"stage"`
		Succeeded  bool      `json:"succeeded"`
		Detail     string    `json:"detail,omitempty"`
		ReportedAt time.Time `json:"reported_at"`
	}

	// TripJobFinished is published once a job reaches a terminal status.
	TripJobFinished struct {
		JobID       uuid.UUID `json:"job_id"`
		Status      JobStatus `json:"status"`
		Error       string    `json:"error,omitempty"`
		CallbackURL string    `json:"callback_url,omitempty"`
		FinishedAt  time.Time `json:"finished_at"`
	}

	TrackJobStageResult struct {
		Job      *Job
		Changed  bool
		Finished bool
	}
)

func NewPlanTrip(job *Job) PlanTrip {
	return PlanTrip{
		JobID:       job.ID,
		Origin:      job.Origin,
		Destination: job.Destination,
		Email:       job.Email,
		RequestedAt: job.CreatedAt,
	}
}
