package flags

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/netinvest/server/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestFindFlagIDsBySubject(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"flag_id"}).AddRow("F-1").AddRow("F-2")
	mock.ExpectQuery(`SELECT\s+DISTINCT\s+flag_id\s+FROM\s+flags\s+WHERE\s+subject_id\s*=\s*\$1`).
		WithArgs("node-7").
		WillReturnRows(rows)

	got, err := repo.FindFlagIDsBySubject(context.Background(), "node-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "F-1" || got[1] != "F-2" {
		t.Fatalf("unexpected flag ids: %v", got)
	}
}

func TestFindByFlagIDs_Empty(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	got, err := repo.FindByFlagIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil result for empty input, got %v", got)
	}
}

func TestFindByFlagIDs_Rows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	rows := sqlmock.NewRows([]string{"id", "flag_id", "subject_id", "rule_id", "score", "parameter", "create_date", "create_by"}).
		AddRow(1, "F-1", "node-7", "R-1", 80, "JP", created, "SYSTEM").
		AddRow(2, "F-1", "node-8", "R-1", 80, "JP", created, "SYSTEM")

	mock.ExpectQuery(`WHERE\s+flag_id\s+IN\s+\(\$1\)`).
		WithArgs("F-1").
		WillReturnRows(rows)

	got, err := repo.FindByFlagIDs(context.Background(), []string{"F-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].SubjectID != "node-8" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestExistsFlagID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs("F-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsFlagID(context.Background(), "F-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatalf("expected flag to exist")
	}
}

func TestCreateBatch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	q := `INSERT\s+INTO\s+flags`
	mock.ExpectExec(q).
		WithArgs("F-1", "node-7", "R-1", 80, "JP", created, "ADMIN").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q).
		WithArgs("F-1", "node-8", "R-1", 80, "JP", created, "ADMIN").
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := repo.CreateBatch(context.Background(), []*models.Flag{
		{FlagID: "F-1", SubjectID: "node-7", RuleID: "R-1", Score: 80, Parameter: "JP", CreateDate: created, CreateBy: "ADMIN"},
		{FlagID: "F-1", SubjectID: "node-8", RuleID: "R-1", Score: 80, Parameter: "JP", CreateDate: created, CreateBy: "ADMIN"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteByFlagID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+flags\s+WHERE\s+flag_id\s*=\s*\$1`).
		WithArgs("F-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.DeleteByFlagID(context.Background(), "F-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("count mismatch: got %d want 2", count)
	}
}

func TestDeleteByFlagID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+flags`).
		WithArgs("F-1").
		WillReturnError(errors.New("db err"))

	_, err := repo.DeleteByFlagID(context.Background(), "F-1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
