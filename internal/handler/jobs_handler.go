package handler

import (
	"net/http"
	"time"

	"jokes-api/internal/service"
)

type fetchJob interface {
	LastRun() (service.JobRun, bool)
}

type jobRunView struct {
	Status     string    `json:"status"`
	JokeID     string    `json:"joke_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
}

func newJobRunView(run service.JobRun) jobRunView {
	view := jobRunView{
		Status:     run.Status,
		JokeID:     run.JokeID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		DurationMS: run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	}
	if run.Err != nil {
		view.Error = run.Err.Error()
	}
	return view
}

type JobsHandler struct {
	job      fetchJob
	schedule string
	enabled  bool
}

func NewJobsHandler(job fetchJob, schedule string, enabled bool) *JobsHandler {
	return &JobsHandler{job: job, schedule: schedule, enabled: enabled}
}

func (h *JobsHandler) FetchJokeStatus(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"name":     "fetch-joke",
		"schedule": h.schedule,
		"enabled":  h.enabled,
	}

	if run, ok := h.job.LastRun(); ok {
		data["last_run"] = newJobRunView(run)
	}

	writeSuccess(w, http.StatusOK, data, nil)
}
