package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Case lifecycle states. A case moves pending -> processing -> complete or
// failed; nothing else.
const (
	CaseStatusPending    = "pending"
	CaseStatusProcessing = "processing"
	CaseStatusComplete   = "complete"
	CaseStatusFailed     = "failed"
)

type Case struct {
	CaseID        int64              `json:"case_id"`
	Filename      string             `json:"filename"`
	FileKey       pgtype.Text        `json:"file_key"`
	ContentKind   string             `json:"content_kind"`
	Status        string             `json:"status"`
	FailureReason pgtype.Text        `json:"failure_reason"`
	ImageAnalysis pgtype.Text        `json:"image_analysis"`
	SuspectImage  pgtype.Text        `json:"suspect_image"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}
