package models

// SweepResult summarises one pass of the appointment lifecycle sweep.
type SweepResult struct {
	Examined  int      `json:"examined"`
	Completed int      `json:"completed"`
	Repaired  int      `json:"repaired"`  // status fixed but patient already counted
	Skipped   int      `json:"skipped"`   // not approved, not yet due, or unparsable
	Anomalies int      `json:"anomalies"` // unparsable date/time pairs
	Failed    []string `json:"failed,omitempty"`
}

// SweepTaskPayload is the asynq payload for a scheduled sweep run.
type SweepTaskPayload struct {
	Trigger string `json:"trigger"` // "cron" or "manual"
}
