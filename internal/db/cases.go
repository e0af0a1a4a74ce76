package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCase = `-- name: CreateCase :one
INSERT INTO cases (filename, file_key, content_kind, status)
VALUES ($1, $2, $3, $4)
RETURNING case_id, filename, file_key, content_kind, status, failure_reason, image_analysis, suspect_image, created_at, updated_at
`

type CreateCaseParams struct {
	Filename    string      `json:"filename"`
	FileKey     pgtype.Text `json:"file_key"`
	ContentKind string      `json:"content_kind"`
	Status      string      `json:"status"`
}

func (q *Queries) CreateCase(ctx context.Context, arg CreateCaseParams) (Case, error) {
	row := q.db.QueryRow(ctx, createCase,
		arg.Filename,
		arg.FileKey,
		arg.ContentKind,
		arg.Status,
	)
	var i Case
	err := row.Scan(
		&i.CaseID,
		&i.Filename,
		&i.FileKey,
		&i.ContentKind,
		&i.Status,
		&i.FailureReason,
		&i.ImageAnalysis,
		&i.SuspectImage,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCase = `-- name: GetCase :one
SELECT case_id, filename, file_key, content_kind, status, failure_reason, image_analysis, suspect_image, created_at, updated_at
FROM cases
WHERE case_id = $1
`

func (q *Queries) GetCase(ctx context.Context, caseID int64) (Case, error) {
	row := q.db.QueryRow(ctx, getCase, caseID)
	var i Case
	err := row.Scan(
		&i.CaseID,
		&i.Filename,
		&i.FileKey,
		&i.ContentKind,
		&i.Status,
		&i.FailureReason,
		&i.ImageAnalysis,
		&i.SuspectImage,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCases = `-- name: ListCases :many
SELECT case_id, filename, file_key, content_kind, status, failure_reason, image_analysis, suspect_image, created_at, updated_at
FROM cases
ORDER BY created_at DESC, case_id DESC
LIMIT $1 OFFSET $2
`

type ListCasesParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListCases(ctx context.Context, arg ListCasesParams) ([]Case, error) {
	rows, err := q.db.Query(ctx, listCases, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Case{}
	for rows.Next() {
		var i Case
		if err := rows.Scan(
			&i.CaseID,
			&i.Filename,
			&i.FileKey,
			&i.ContentKind,
			&i.Status,
			&i.FailureReason,
			&i.ImageAnalysis,
			&i.SuspectImage,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countCases = `-- name: CountCases :one
SELECT count(*) FROM cases
`

func (q *Queries) CountCases(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countCases)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateCaseStatus = `-- name: UpdateCaseStatus :exec
UPDATE cases
SET status = $2, failure_reason = $3, updated_at = now()
WHERE case_id = $1
`

type UpdateCaseStatusParams struct {
	CaseID        int64       `json:"case_id"`
	Status        string      `json:"status"`
	FailureReason pgtype.Text `json:"failure_reason"`
}

func (q *Queries) UpdateCaseStatus(ctx context.Context, arg UpdateCaseStatusParams) error {
	_, err := q.db.Exec(ctx, updateCaseStatus, arg.CaseID, arg.Status, arg.FailureReason)
	return err
}

const setCaseImageAnalysis = `-- name: SetCaseImageAnalysis :exec
UPDATE cases
SET image_analysis = $2, updated_at = now()
WHERE case_id = $1
`

type SetCaseImageAnalysisParams struct {
	CaseID        int64       `json:"case_id"`
	ImageAnalysis pgtype.Text `json:"image_analysis"`
}

func (q *Queries) SetCaseImageAnalysis(ctx context.Context, arg SetCaseImageAnalysisParams) error {
	_, err := q.db.Exec(ctx, setCaseImageAnalysis, arg.CaseID, arg.ImageAnalysis)
	return err
}

const setCaseSuspectImage = `-- name: SetCaseSuspectImage :exec
UPDATE cases
SET suspect_image = $2, updated_at = now()
WHERE case_id = $1
`

type SetCaseSuspectImageParams struct {
	CaseID       int64       `json:"case_id"`
	SuspectImage pgtype.Text `json:"suspect_image"`
}

func (q *Queries) SetCaseSuspectImage(ctx context.Context, arg SetCaseSuspectImageParams) error {
	_, err := q.db.Exec(ctx, setCaseSuspectImage, arg.CaseID, arg.SuspectImage)
	return err
}
