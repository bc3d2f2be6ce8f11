package types

const (
	TASK_STATUS_PENDING   = "pending"
	TASK_STATUS_RUNNING   = "running"
	TASK_STATUS_COMPLETED = "completed"
	TASK_STATUS_FAILED    = "failed"
)

// ExtractionTask tracks one asynchronous PDF extraction job. The record is
// persisted before the upload endpoint returns, so a restart never loses a
// task id that was handed to a client.
type ExtractionTask struct {
	ID          string `json:"task_id" bson:"_id,omitempty"`
	Status      string `json:"status" bson:"status"`
	Description string `json:"description" bson:"description"`
	FileName    string `json:"file_name,omitempty" bson:"file_name,omitempty"`
	FilePath    string `json:"-" bson:"file_path,omitempty"`
	PaperID     string `json:"paper_id,omitempty" bson:"paper_id,omitempty"`
	CreateAt    int64  `json:"created_at" bson:"created_at"`
	UpdateAt    int64  `json:"updated_at" bson:"updated_at"`
}

// Terminal reports whether the task has reached a final state.
func (t *ExtractionTask) Terminal() bool {
	return t.Status == TASK_STATUS_COMPLETED || t.Status == TASK_STATUS_FAILED
}
