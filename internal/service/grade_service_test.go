package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

type mockGradeRepo struct {
	grades    map[int64]*models.Grade
	nameTaken bool
	created   []*models.Grade
	nextID    int64
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{grades: make(map[int64]*models.Grade), nextID: 1}
}

func (m *mockGradeRepo) List(ctx context.Context) ([]models.Grade, error) {
	var out []models.Grade
	for _, g := range m.grades {
		out = append(out, *g)
	}
	return out, nil
}

func (m *mockGradeRepo) FindByID(ctx context.Context, id int64) (*models.Grade, error) {
	g, ok := m.grades[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return g, nil
}

func (m *mockGradeRepo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return m.nameTaken, nil
}

func (m *mockGradeRepo) Create(ctx context.Context, grade *models.Grade) error {
	grade.ID = m.nextID
	m.nextID++
	m.grades[grade.ID] = grade
	m.created = append(m.created, grade)
	return nil
}

func (m *mockGradeRepo) Update(ctx context.Context, grade *models.Grade) error {
	m.grades[grade.ID] = grade
	return nil
}

func (m *mockGradeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.grades[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.grades, id)
	return nil
}

type mockGradeSubjectRepo struct {
	known map[int64]string
}

func (m *mockGradeSubjectRepo) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if _, ok := m.known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (m *mockGradeSubjectRepo) FindRefs(ctx context.Context, ids []int64) ([]models.SubjectRef, error) {
	var refs []models.SubjectRef
	for _, id := range ids {
		if name, ok := m.known[id]; ok {
			refs = append(refs, models.SubjectRef{ID: id, Name: name})
		}
	}
	return refs, nil
}

func newTestGradeService(repo *mockGradeRepo, subjects *mockGradeSubjectRepo) *GradeService {
	return NewGradeService(repo, subjects, validator.New(), zap.NewNop())
}

func TestGradeServiceCreateWithValidSubjects(t *testing.T) {
	repo := newMockGradeRepo()
	subjects := &mockGradeSubjectRepo{known: map[int64]string{1: "Math", 2: "Science"}}
	svc := newTestGradeService(repo, subjects)

	grade, err := svc.Create(context.Background(), GradeRequest{
		Name: "Grade 5", Segment: "primary", Subjects: []int64{1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, models.Int64List{1, 2}, grade.Subjects)
}

func TestGradeServiceCreateRejectsUnknownSubjects(t *testing.T) {
	repo := newMockGradeRepo()
	subjects := &mockGradeSubjectRepo{known: map[int64]string{1: "Math"}}
	svc := newTestGradeService(repo, subjects)

	_, err := svc.Create(context.Background(), GradeRequest{
		Name: "Grade 5", Segment: "primary", Subjects: []int64{1, 7, 9},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidReference.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "7")
	assert.Contains(t, appErr.Message, "9")
	assert.Empty(t, repo.created, "rejected request must not write any row")
}

func TestGradeServiceCreateDuplicateName(t *testing.T) {
	repo := newMockGradeRepo()
	repo.nameTaken = true
	svc := newTestGradeService(repo, &mockGradeSubjectRepo{known: map[int64]string{}})

	_, err := svc.Create(context.Background(), GradeRequest{Name: "Grade 5", Segment: "primary"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceGetExpandsSubjects(t *testing.T) {
	repo := newMockGradeRepo()
	repo.grades[3] = &models.Grade{ID: 3, Name: "Grade 8", Segment: models.SegmentSecondary, Subjects: models.Int64List{1, 2}}
	subjects := &mockGradeSubjectRepo{known: map[int64]string{1: "Math", 2: "Science"}}
	svc := newTestGradeService(repo, subjects)

	detail, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, detail.SubjectDetails, 2)
	assert.Equal(t, "Math", detail.SubjectDetails[0].Name)
}

func TestGradeServiceGetEmptySubjectListExpandsEmpty(t *testing.T) {
	repo := newMockGradeRepo()
	repo.grades[4] = &models.Grade{ID: 4, Name: "Grade 1", Segment: models.SegmentPrimary}
	svc := newTestGradeService(repo, &mockGradeSubjectRepo{known: map[int64]string{}})

	detail, err := svc.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, detail.SubjectDetails)
	assert.Empty(t, detail.SubjectDetails)
}
