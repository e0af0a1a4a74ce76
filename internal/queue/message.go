package queue

// ProcessCaseMsg is the payload queued for every uploaded case file.
type ProcessCaseMsg struct {
	CaseID   int64  `json:"case_id"`
	FileKey  string `json:"file_key"`
	Filename string `json:"filename"`
	Kind     string `json:"kind"`
}
