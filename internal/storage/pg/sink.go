package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const tableName = "report_rows"

var columns = []string{
	"run_id",
	"position",
	"question",
	"model_response",
	"expected_answer",
	"cosine_similarity",
	"exact_match",
	"fuzzy_comparison",
	"includes_match",
	"llm_accuracy",
	"llm_relevance",
	"llm_bias",
	"llm_explanation",
	"errors",
}

type Sink struct {
	pool *ConnectionPool
}

func NewSink(pool *ConnectionPool) *Sink {
	return &Sink{pool: pool}
}

// Write replaces the rows of runID inside one transaction, keeping each row's position.
func (s *Sink) Write(ctx context.Context, runID uuid.UUID, rows []domain.ReportRow) error {
	data := make([][]any, len(rows))
	for i, r := range rows {
		var errs any
		if r.HasErrors() {
			b, err := json.Marshal(r.Errors)
			if err != nil {
				return fmt.Errorf("failed to marshal errors for row %d: %w", i, err)
			}
			errs = b
		}

		data[i] = []any{
			runID,
			i,
			r.Question,
			r.ModelResponse,
			r.ExpectedAnswer,
			r.CosineSimilarity,
			r.ExactMatch,
			r.FuzzyComparison,
			r.IncludesMatch,
			r.LLMAccuracy,
			r.LLMRelevance,
			r.LLMBias,
			r.LLMExplanation,
			errs,
		}
	}

	tx, err := s.pool.GetConn().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM report_rows WHERE run_id = $1", runID); err != nil {
		return fmt.Errorf("failed to clear previous rows: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{tableName}, columns, pgx.CopyFromRows(data))
	if err != nil {
		return fmt.Errorf("failed to bulk insert report rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit report rows: %w", err)
	}

	slog.Info("report rows saved", "run_id", runID, "rows", n, "table", tableName)
	return nil
}

// Rows returns the stored rows of runID in position order.
func (s *Sink) Rows(ctx context.Context, runID uuid.UUID) ([]domain.ReportRow, error) {
	const query = `
        SELECT question, model_response, expected_answer, cosine_similarity, exact_match,
               fuzzy_comparison, includes_match, llm_accuracy, llm_relevance, llm_bias,
               llm_explanation, errors
        FROM report_rows
        WHERE run_id = $1
        ORDER BY position;
    `
	res, err := s.pool.GetConn().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}
	defer res.Close()

	var rows []domain.ReportRow
	for res.Next() {
		var (
			r    domain.ReportRow
			errs []byte
		)
		if err := res.Scan(
			&r.Question,
			&r.ModelResponse,
			&r.ExpectedAnswer,
			&r.CosineSimilarity,
			&r.ExactMatch,
			&r.FuzzyComparison,
			&r.IncludesMatch,
			&r.LLMAccuracy,
			&r.LLMRelevance,
			&r.LLMBias,
			&r.LLMExplanation,
			&errs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if len(errs) > 0 {
			if err := json.Unmarshal(errs, &r.Errors); err != nil {
				return nil, fmt.Errorf("failed to unmarshal row errors: %w", err)
			}
		}
		rows = append(rows, r)
	}

	return rows, res.Err()
}

func (s *Sink) Healthy(ctx context.Context) bool {
	return NewHealthChecker(s.pool).Healthy(ctx)
}

func (s *Sink) Close() error {
	s.pool.Close()
	return nil
}
