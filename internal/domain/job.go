package domain

// JobOutcome is the structured result of one daily report run. The job
// never lets an error escape its boundary; every run yields an outcome.
type JobOutcome struct {
	Status           string   `json:"status"`
	RunID            string   `json:"run_id"`
	Date             string   `json:"date,omitempty"`
	DifferencesCount int      `json:"differences_count"`
	FilesCleaned     int      `json:"files_cleaned"`
	Attachments      []string `json:"attachments,omitempty"`
	Message          string   `json:"message,omitempty"`
}

const (
	JobStatusOK    = "ok"
	JobStatusError = "error"
)

// CleanupResult reports one retention sweep over the reports directory.
type CleanupResult struct {
	FilesDeleted int      `json:"files_deleted"`
	DaysKept     int      `json:"days_kept"`
	Errors       []string `json:"errors,omitempty"`
	Note         string   `json:"note,omitempty"`
}
