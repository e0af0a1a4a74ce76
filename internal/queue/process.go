package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cognitive-crime/casegraph/internal/db"
	"github.com/cognitive-crime/casegraph/internal/storage"
	"github.com/cognitive-crime/casegraph/internal/util"
	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/graph"
	"github.com/cognitive-crime/casegraph/pkg/leaselock"
	"github.com/cognitive-crime/casegraph/pkg/loader"
	"github.com/cognitive-crime/casegraph/pkg/logger"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseStatusStore implements graph.StatusStore on the cases table.
type CaseStatusStore struct {
	queries *db.Queries
}

// NewCaseStatusStore creates a status store over a database connection.
func NewCaseStatusStore(conn db.DBTX) *CaseStatusStore {
	return &CaseStatusStore{queries: db.New(conn)}
}

func (s *CaseStatusStore) MarkComplete(ctx context.Context, caseID int64) error {
	return s.queries.UpdateCaseStatus(ctx, db.UpdateCaseStatusParams{
		CaseID: caseID,
		Status: db.CaseStatusComplete,
	})
}

func (s *CaseStatusStore) MarkFailed(ctx context.Context, caseID int64, reason string) error {
	return s.queries.UpdateCaseStatus(ctx, db.UpdateCaseStatusParams{
		CaseID:        caseID,
		Status:        db.CaseStatusFailed,
		FailureReason: pgtype.Text{String: reason, Valid: true},
	})
}

func (s *CaseStatusStore) markProcessing(ctx context.Context, caseID int64) error {
	return s.queries.UpdateCaseStatus(ctx, db.UpdateCaseStatusParams{
		CaseID: caseID,
		Status: db.CaseStatusProcessing,
	})
}

// ProcessCase handles one queued case file end to end: lease, load, extract,
// merge, status. A nil return means the message is settled, whether the case
// ended complete or failed; an error return asks for a redelivery. retries is
// the delivery's retry counter; once it reaches the budget, a processing
// error fails the case row so it never sits in processing after the message
// is dead-lettered.
func ProcessCase(
	ctx context.Context,
	files *storage.FileStore,
	aiClient ai.CaseAIClient,
	builder *graph.Builder,
	locks *leaselock.Client,
	conn *pgxpool.Pool,
	body string,
	retries int,
) error {
	var msg ProcessCaseMsg
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		logger.Error("[Process] Discarding malformed message", "err", err)
		return nil
	}

	status := NewCaseStatusStore(conn)

	// One build per case at a time. A busy lease sends the message through
	// the retry queue instead of blocking the consumer.
	err := locks.WithLease(ctx, fmt.Sprintf("case:%d", msg.CaseID), leaselock.Options{
		TTL:         10 * time.Minute,
		TokenPrefix: "worker-",
	}, func(ctx context.Context) error {
		return processCaseLocked(ctx, files, aiClient, builder, status, msg)
	})
	if err != nil && shouldFailCase(err, retries) {
		logger.Error("[Process] Retry budget exhausted, failing case", "case_id", msg.CaseID, "err", err)
		if markErr := status.MarkFailed(ctx, msg.CaseID, err.Error()); markErr != nil {
			logger.Error("[Process] Failed to record case failure", "case_id", msg.CaseID, "err", markErr)
		}
	}
	return err
}

// shouldFailCase reports whether a processing error should fail the case row
// because the delivery is out of retries. A busy lease means another worker
// holds the case and will settle its status; a canceled context means
// shutdown, and the message stays eligible for redelivery elsewhere.
func shouldFailCase(err error, retries int) bool {
	if retries < maxRetries {
		return false
	}
	if errors.Is(err, leaselock.ErrBusy) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func processCaseLocked(
	ctx context.Context,
	files *storage.FileStore,
	aiClient ai.CaseAIClient,
	builder *graph.Builder,
	status *CaseStatusStore,
	msg ProcessCaseMsg,
) error {
	if err := status.markProcessing(ctx, msg.CaseID); err != nil {
		return fmt.Errorf("failed to mark case %d processing: %w", msg.CaseID, err)
	}

	data, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) ([]byte, error) {
		return files.GetFile(ctx, msg.FileKey)
	})
	if err != nil {
		return err
	}

	content, err := loader.Decode(data, msg.Filename, loader.ContentKind(msg.Kind))
	if err != nil {
		// Undecodable content never improves on retry.
		logger.Error("[Process] Failed to decode case file", "case_id", msg.CaseID, "err", err)
		return status.MarkFailed(ctx, msg.CaseID, fmt.Sprintf("failed to decode file: %v", err))
	}

	if content.Kind == loader.ContentKindImage {
		return processImageCase(ctx, aiClient, status, msg, content.Image)
	}

	report, err := builder.Build(ctx, msg.CaseID, content.Text)
	if err != nil {
		if ai.IsKind(err, ai.KindService) || ai.IsKind(err, ai.KindFormat) {
			logger.Error("[Process] Extraction failed terminally", "case_id", msg.CaseID, "err", err)
			return status.MarkFailed(ctx, msg.CaseID, err.Error())
		}
		return err
	}

	logger.Info("[Process] Case graph built",
		"case_id", msg.CaseID,
		"nodes", report.NodesWritten,
		"edges", report.EdgesWritten,
		"dangling", report.Dangling,
		"skipped_nodes", report.SkippedNodes,
		"skipped_edges", report.SkippedEdges,
	)
	return nil
}

// processImageCase stores a free-text forensic description of an image case.
// Image cases do not contribute to the knowledge graph.
func processImageCase(
	ctx context.Context,
	aiClient ai.CaseAIClient,
	status *CaseStatusStore,
	msg ProcessCaseMsg,
	image loader.ImageContent,
) error {
	analysis, err := aiClient.GenerateImageDescription(ctx, ai.ImageAnalysisPrompt, image)
	if err != nil {
		if ai.IsKind(err, ai.KindService) || ai.IsKind(err, ai.KindFormat) {
			logger.Error("[Process] Image analysis failed terminally", "case_id", msg.CaseID, "err", err)
			return status.MarkFailed(ctx, msg.CaseID, err.Error())
		}
		return err
	}

	if err := status.queries.SetCaseImageAnalysis(ctx, db.SetCaseImageAnalysisParams{
		CaseID:        msg.CaseID,
		ImageAnalysis: pgtype.Text{String: analysis, Valid: true},
	}); err != nil {
		return fmt.Errorf("failed to store image analysis: %w", err)
	}

	if err := status.MarkComplete(ctx, msg.CaseID); err != nil {
		return fmt.Errorf("failed to mark case %d complete: %w", msg.CaseID, err)
	}

	logger.Info("[Process] Image case analyzed", "case_id", msg.CaseID)
	return nil
}
