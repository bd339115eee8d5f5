package database

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementFor(t *testing.T, table string) string {
	t.Helper()
	prefix := "CREATE TABLE IF NOT EXISTS " + table + " ("
	for _, stmt := range schemaStatements {
		if strings.Contains(stmt, prefix) {
			return stmt
		}
	}
	t.Fatalf("no schema statement for table %s", table)
	return ""
}

func TestSchemaClassKeepsRowWhenTeacherDeleted(t *testing.T) {
	stmt := statementFor(t, "classes")
	assert.Contains(t, stmt, "class_teacher_id BIGINT REFERENCES teachers(id) ON DELETE SET NULL")
}

func TestSchemaStudentKeepsRowWhenClassDeleted(t *testing.T) {
	stmt := statementFor(t, "students")
	assert.Contains(t, stmt, "class_id BIGINT REFERENCES classes(id) ON DELETE SET NULL")
}

func TestSchemaTimetableCascadesOnReferentDelete(t *testing.T) {
	stmt := statementFor(t, "timetable")
	assert.Contains(t, stmt, "class_id BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE")
	assert.Contains(t, stmt, "subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE")
	assert.Contains(t, stmt, "teacher_id BIGINT NOT NULL REFERENCES teachers(id) ON DELETE CASCADE")
	assert.Contains(t, stmt, "CONSTRAINT unique_schedule UNIQUE (class_id, day_of_week, period_number)")
}

func TestInitializeRunsEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range schemaStatements {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	err = Initialize(context.Background(), sqlx.NewDb(db, "sqlmock"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
