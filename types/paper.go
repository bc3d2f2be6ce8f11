package types

// PaperParams carries the board/grade/subject triple every sample paper is
// filed under.
type PaperParams struct {
	Board   string `json:"board" bson:"board"`
	Grade   int    `json:"grade" bson:"grade"`
	Subject string `json:"subject" bson:"subject"`
}

// Question is a single question inside a section.
type Question struct {
	Question     string            `json:"question" bson:"question"`
	Answer       string            `json:"answer" bson:"answer"`
	Type         string            `json:"type" bson:"type"`
	QuestionSlug string            `json:"question_slug" bson:"question_slug"`
	ReferenceID  string            `json:"reference_id" bson:"reference_id"`
	Hint         string            `json:"hint,omitempty" bson:"hint,omitempty"`
	Params       map[string]string `json:"params,omitempty" bson:"params,omitempty"`
}

// Section groups questions that share a marking scheme.
type Section struct {
	MarksPerQuestion int        `json:"marks_per_question" bson:"marks_per_question"`
	Type             string     `json:"type" bson:"type"`
	Questions        []Question `json:"questions" bson:"questions"`
}

// SamplePaper is the stored document for one exam/sample paper. It is created
// either directly through the CRUD API or as the output of an extraction run.
type SamplePaper struct {
	ID       string      `json:"id,omitempty" bson:"_id,omitempty"`
	Title    string      `json:"title" bson:"title"`
	Type     string      `json:"type" bson:"type"`
	Time     int         `json:"time" bson:"time"`
	Marks    int         `json:"marks" bson:"marks"`
	Params   PaperParams `json:"params" bson:"params"`
	Tags     []string    `json:"tags" bson:"tags"`
	Chapters []string    `json:"chapters" bson:"chapters"`
	Sections []Section   `json:"sections" bson:"sections"`
	CreateAt int64       `json:"created_at" bson:"created_at"`
	UpdateAt int64       `json:"updated_at" bson:"updated_at"`
}
