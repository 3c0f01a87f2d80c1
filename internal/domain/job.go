package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"

	StageRoute   Stage = "route"
	StageWeather Stage = "weather"
	StageGeocode Stage = "geocode"
	StageMap     Stage = "map"
	StageEmail   Stage = "email"

	StageStatusSucceeded StageStatus = "succeeded"
	StageStatusFailed    StageStatus = "failed"
)

// Stages lists every stage a trip job passes through, in pipeline order.
var Stages = []Stage{StageRoute, StageWeather, StageGeocode, StageMap, StageEmail}

type (
	JobStatus   string
	Stage       string
	StageStatus string

	StageState struct {
		Status     StageStatus `json:"status"`
		Detail     string      `json:"detail,omitempty"`
		ReportedAt time.Time   `json:"reported_at"`
	}

	// Job is the status document of one trip planning request.
	Job struct {
		ID          uuid.UUID            `json:"job_id"`
		Origin      string               `json:"origin"`
		Destination string               `json:"destination"`
		Email       string               `json:"email"`
		CallbackURL string               `json:"callback_url,omitempty"`
		Status      JobStatus            `json:"status"`
		Stages      map[Stage]StageState `json:"stages"`
		Error       string               `json:"error,omitempty"`
		CreatedAt   time.Time            `json:"created_at"`
		UpdatedAt   time.Time            `json:"updated_at"`
		CompletedAt *time.Time           `json:"completed_at,omitempty"`
		Version     int                  `json:"-"`
	}

	TripRequest struct {
		Origin      string
		Destination string
		Email       string
		CallbackURL string
	}
)

func (s Stage) Valid() bool {
	return slices.Contains(Stages, s)
}

func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

func NewJob(req TripRequest, now time.Time) *Job {
	return &Job{
		ID:          uuid.New(),
		Origin:      req.Origin,
		Destination: req.Destination,
		Email:       req.Email,
		CallbackURL: req.CallbackURL,
		Status:      JobStatusPending,
		Stages:      make(map[Stage]StageState, len(Stages)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply records a stage report on the job. It reports whether the job changed.
// A stage that already has a recorded outcome keeps it.
func (j *Job) Apply(report JobStageReported) (bool, error) {
	if j.Status.Terminal() {
		return false, ErrJobAlreadyFinished
	}

	if !report.Stage.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownStage, report.Stage)
	}

	if _, ok := j.Stages[report.Stage]; ok {
		return false, nil
	}

	if j.Stages == nil {
		j.Stages = make(map[Stage]StageState, len(Stages))
	}

	state := StageState{
		Status:     StageStatusSucceeded,
		Detail:     report.Detail,
		ReportedAt: report.ReportedAt,
	}

	if !report.Succeeded {
		state.Status = StageStatusFailed
	}

	j.Stages[report.Stage] = state
	j.Status = JobStatusInProgress
	j.UpdatedAt = report.ReportedAt

	switch {
	case state.Status == StageStatusFailed:
		j.finish(JobStatusFailed, report.ReportedAt)
		j.Error = fmt.Sprintf("%s stage failed", report.Stage)

		if report.Detail != "" {
			j.Error += ": " + report.Detail
		}
	case j.allStagesSucceeded():
		j.finish(JobStatusCompleted, report.ReportedAt)
	}

	return true, nil
}

// Fail marks a job that never reached the pipeline as failed.
func (j *Job) Fail(reason string, at time.Time) {
	if j.Status.Terminal() {
		return
	}

	j.Error = reason
	j.UpdatedAt = at
	j.finish(JobStatusFailed, at)
}

func (j *Job) Finished() TripJobFinished {
	finished := TripJobFinished{
		JobID:       j.ID,
		Status:      j.Status,
		Error:       j.Error,
		CallbackURL: j.CallbackURL,
	}

	if j.CompletedAt != nil {
		finished.FinishedAt = *j.CompletedAt
	}

	return finished
}

func (j *Job) CheckVersion(expectedVersion int) error {
	if j.Version != expectedVersion {
		return &OptimisticLockError{
			Expected: expectedVersion,
			Actual:   j.Version,
		}
	}

	return nil
}

func (j *Job) finish(status JobStatus, at time.Time) {
	j.Status = status
	j.CompletedAt = &at
}

func (j *Job) allStagesSucceeded() bool {
	for _, stage := range Stages {
		if state, ok := j.Stages[stage]; !ok || state.Status != StageStatusSucceeded {
			return false
		}
	}

	return true
}
