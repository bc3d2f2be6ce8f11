package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type PaginateResponse struct {
	Total    int64       `json:"total"`
	Page     int64       `json:"page"`
	Limit    int64       `json:"limit"`
	Elements interface{} `json:"elements"`
}

// TaskAcceptedResponse is returned by the PDF upload endpoint together with
// HTTP 202.
type TaskAcceptedResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type TaskStatusResponse struct {
	TaskID      string `json:"task_id"`
	Status      string `json:"status"`
	Description string `json:"description"`
	PaperID     string `json:"paper_id,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo"`
	Redis  string `json:"redis"`
}
