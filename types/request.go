package types

type CreatePaperRequest struct {
	Title    string      `json:"title" binding:"required"`
	Type     string      `json:"type" binding:"required"`
	Time     int         `json:"time"`
	Marks    int         `json:"marks"`
	Params   PaperParams `json:"params"`
	Tags     []string    `json:"tags"`
	Chapters []string    `json:"chapters"`
	Sections []Section   `json:"sections"`
}

// UpdatePaperRequest carries a partial update. Nil fields are left untouched.
type UpdatePaperRequest struct {
	Title    *string      `json:"title,omitempty"`
	Type     *string      `json:"type,omitempty"`
	Time     *int         `json:"time,omitempty"`
	Marks    *int         `json:"marks,omitempty"`
	Params   *PaperParams `json:"params,omitempty"`
	Tags     []string     `json:"tags,omitempty"`
	Chapters []string     `json:"chapters,omitempty"`
	Sections []Section    `json:"sections,omitempty"`
}

type ExtractTextRequest struct {
	Text string `json:"text" binding:"required"`
}
