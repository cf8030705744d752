package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reviewStatusRepositoryImpl struct {
	db *database.DB
}

func NewReviewStatusRepository(db *database.DB) reconciliation.ReviewStatusRepository {
	return &reviewStatusRepositoryImpl{db: db}
}

func scanReviewState(key reconciliation.Key, row pgx.Row) (reconciliation.ReviewState, error) {
	state := reconciliation.ReviewState{Key: key}
	err := row.Scan(&state.Status, &state.Source, &state.Revision, &state.UpdatedAt)
	return state, err
}

// GetReviewState implements reconciliation.ReviewStatusRepository.
func (r *reviewStatusRepositoryImpl) GetReviewState(ctx context.Context, key reconciliation.Key) (reconciliation.ReviewState, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, source, revision, updated_at
		FROM review_statuses
		WHERE employee_id = $1 AND branch_id = $2 AND month = $3
	`

	state, err := scanReviewState(key, q.QueryRow(ctx, query, key.EmployeeID, key.BranchID, key.Month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reconciliation.ReviewState{}, reconciliation.ErrReviewStateNotFound
		}
		return reconciliation.ReviewState{}, fmt.Errorf("failed to get review status: %w", err)
	}

	return state, nil
}

// SetReviewState implements reconciliation.ReviewStatusRepository.
func (r *reviewStatusRepositoryImpl) SetReviewState(ctx context.Context, key reconciliation.Key, status reconciliation.ReviewStatus, source reconciliation.StatusSource) (reconciliation.ReviewState, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO review_statuses (employee_id, branch_id, month, status, source, revision, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, NOW())
		ON CONFLICT (employee_id, branch_id, month) DO UPDATE SET
			status = EXCLUDED.status,
			source = EXCLUDED.source,
			revision = review_statuses.revision + 1,
			updated_at = NOW()
		RETURNING status, source, revision, updated_at
	`

	state, err := scanReviewState(key, q.QueryRow(ctx, query,
		key.EmployeeID, key.BranchID, key.Month, string(status), string(source),
	))
	if err != nil {
		return reconciliation.ReviewState{}, fmt.Errorf("failed to set review status: %w", err)
	}

	return state, nil
}

// TouchRevision implements reconciliation.ReviewStatusRepository.
func (r *reviewStatusRepositoryImpl) TouchRevision(ctx context.Context, key reconciliation.Key) (reconciliation.ReviewState, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO review_statuses (employee_id, branch_id, month, status, source, revision, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, NOW())
		ON CONFLICT (employee_id, branch_id, month) DO UPDATE SET
			revision = review_statuses.revision + 1,
			updated_at = NOW()
		RETURNING status, source, revision, updated_at
	`

	state, err := scanReviewState(key, q.QueryRow(ctx, query,
		key.EmployeeID, key.BranchID, key.Month,
		string(reconciliation.ReviewStatusNotStarted), string(reconciliation.StatusSourceDerived),
	))
	if err != nil {
		return reconciliation.ReviewState{}, fmt.Errorf("failed to touch review revision: %w", err)
	}

	return state, nil
}
