package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/netinvest/server/internal/common"
	"github.com/netinvest/server/internal/dbx"
	"github.com/netinvest/server/internal/server/models"
	"github.com/netinvest/server/internal/server/repositories/repomanager"
)

// FlagService manages the risk-flag annotation store.
type FlagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewFlagService constructs a FlagService.
func NewFlagService(db *sql.DB, m repomanager.RepositoryManager) *FlagService {
	return &FlagService{db: db, repomanager: m}
}

// GetBySubject returns every flag touching the subject node, grouped by
// flag id. A flag attached to several subjects is returned whole, with all
// of its subject ids, as long as one of them matches.
func (s *FlagService) GetBySubject(ctx context.Context, subjectID string) ([]models.FlagGroup, error) {
	repo := s.repomanager.Flags(s.db)

	flagIDs, err := repo.FindFlagIDsBySubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("error searching flags: %v", err)
	}
	if len(flagIDs) == 0 {
		return []models.FlagGroup{}, nil
	}

	rows, err := repo.FindByFlagIDs(ctx, flagIDs)
	if err != nil {
		return nil, fmt.Errorf("error searching flags: %v", err)
	}

	return groupFlags(rows), nil
}

// Create inserts one row per subject id, all sharing the flag id. Returns
// common.ErrorAlreadyExists when the flag id is already taken. The batch is
// written in one transaction so a half-created flag never becomes visible.
func (s *FlagService) Create(ctx context.Context, group models.FlagGroup) (*models.FlagGroup, error) {
	repo := s.repomanager.Flags(s.db)

	exists, err := repo.ExistsFlagID(ctx, group.FlagID)
	if err != nil {
		return nil, fmt.Errorf("error checking flag id: %v", err)
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	rows := make([]*models.Flag, 0, len(group.SubjectIDs))
	for _, subjectID := range group.SubjectIDs {
		rows = append(rows, &models.Flag{
			FlagID:     group.FlagID,
			SubjectID:  subjectID,
			RuleID:     group.RuleID,
			Score:      group.Score,
			Parameter:  group.Parameter,
			CreateDate: group.CreateDate,
			CreateBy:   group.CreateBy,
		})
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Flags(tx).CreateBatch(ctx, rows)
	}); err != nil {
		return nil, fmt.Errorf("error creating flags: %v", err)
	}

	return &group, nil
}

// DeleteByFlagID removes every row with the flag id and returns how many
// were deleted. Returns common.ErrorNotFound when the flag id is unknown.
func (s *FlagService) DeleteByFlagID(ctx context.Context, flagID string) (int64, error) {
	repo := s.repomanager.Flags(s.db)

	count, err := repo.DeleteByFlagID(ctx, flagID)
	if err != nil {
		return 0, fmt.Errorf("error deleting flags: %v", err)
	}
	if count == 0 {
		return 0, common.ErrorNotFound
	}
	return count, nil
}

func groupFlags(rows []*models.Flag) []models.FlagGroup {
	index := make(map[string]int)
	groups := make([]models.FlagGroup, 0)

	for _, row := range rows {
		i, ok := index[row.FlagID]
		if !ok {
			index[row.FlagID] = len(groups)
			groups = append(groups, models.FlagGroup{
				FlagID:     row.FlagID,
				RuleID:     row.RuleID,
				Score:      row.Score,
				Parameter:  row.Parameter,
				CreateDate: row.CreateDate,
				CreateBy:   row.CreateBy,
				SubjectIDs: []string{row.SubjectID},
			})
			continue
		}
		groups[i].SubjectIDs = append(groups[i].SubjectIDs, row.SubjectID)
	}

	return groups
}
