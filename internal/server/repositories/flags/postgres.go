package flags

import (
	"context"
	"fmt"
	"strings"

	"github.com/netinvest/server/internal/dbx"
	"github.com/netinvest/server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindFlagIDsBySubject(ctx context.Context, subjectID string) ([]string, error) {
	query := `
		SELECT DISTINCT flag_id
		FROM flags
		WHERE subject_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var flagIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		flagIDs = append(flagIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return flagIDs, nil
}

func (r *PostgresRepository) FindByFlagIDs(ctx context.Context, flagIDs []string) ([]*models.Flag, error) {
	if len(flagIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(flagIDs))
	args := make([]any, len(flagIDs))
	for i, id := range flagIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, flag_id, subject_id, rule_id, score, parameter, create_date, create_by
		FROM flags
		WHERE flag_id IN (%s)
		ORDER BY id
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Flag
	for rows.Next() {
		f := &models.Flag{}
		if err := rows.Scan(&f.ID, &f.FlagID, &f.SubjectID, &f.RuleID, &f.Score,
			&f.Parameter, &f.CreateDate, &f.CreateBy); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ExistsFlagID(ctx context.Context, flagID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM flags WHERE flag_id = $1)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, flagID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) CreateBatch(ctx context.Context, flags []*models.Flag) error {
	query := `
		INSERT INTO flags (flag_id, subject_id, rule_id, score, parameter, create_date, create_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, f := range flags {
		if _, err := r.db.ExecContext(ctx, query,
			f.FlagID, f.SubjectID, f.RuleID, f.Score, f.Parameter, f.CreateDate, f.CreateBy); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) DeleteByFlagID(ctx context.Context, flagID string) (int64, error) {
	query := `
		DELETE FROM flags
		WHERE flag_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, flagID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}
