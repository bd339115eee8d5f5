package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
	"github.com/learnroot/learnroot-api/pkg/export"
)

// ReportFormat selects the rendered output for a report download.
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

// ParseReportFormat maps the query value onto a known format. CSV is the
// default when the value is empty.
func ParseReportFormat(value string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// Report is a rendered document ready to stream to the client.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

type reportStudentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
}

type reportTeacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

// ReportService renders roster exports in CSV or PDF form.
type ReportService struct {
	students reportStudentRepository
	teachers reportTeacherRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(students reportStudentRepository, teachers reportTeacherRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		students: students,
		teachers: teachers,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// StudentRoster renders the full student roster.
func (s *ReportService) StudentRoster(ctx context.Context, format ReportFormat) (*Report, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	dataset := export.Dataset{
		Headers: []string{"Admission No", "Name", "Class", "Section", "Roll No", "Parent", "Parent Phone", "Status"},
	}
	for _, st := range students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Admission No": st.AdmissionNumber,
			"Name":         st.Name,
			"Class":        formatOptionalID(st.ClassID),
			"Section":      formatOptional(st.Section),
			"Roll No":      formatOptionalInt(st.RollNumber),
			"Parent":       formatOptional(st.ParentName),
			"Parent Phone": formatOptional(st.ParentPhone),
			"Status":       st.Status,
		})
	}
	return s.render(dataset, "students_report", "Student Report", format)
}

// TeacherRoster renders the full teacher roster.
func (s *ReportService) TeacherRoster(ctx context.Context, format ReportFormat) (*Report, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}

	dataset := export.Dataset{
		Headers: []string{"Name", "Email", "Phone", "Qualification", "Experience", "Joining Date", "Status"},
	}
	for _, t := range teachers {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":          t.Name,
			"Email":         t.Email,
			"Phone":         formatOptional(t.Phone),
			"Qualification": formatOptional(t.Qualification),
			"Experience":    strconv.Itoa(t.ExperienceYears),
			"Joining Date":  formatOptionalDate(t.JoiningDate),
			"Status":        string(t.Status),
		})
	}
	return s.render(dataset, "teachers_report", "Teacher Report", format)
}

func (s *ReportService) render(dataset export.Dataset, baseName, title string, format ReportFormat) (*Report, error) {
	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &Report{FileName: baseName + ".pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &Report{FileName: baseName + ".csv", ContentType: "text/csv", Content: content}, nil
	}
}

func formatOptional(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatOptionalInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func formatOptionalID(value *int64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatInt(*value, 10)
}

func formatOptionalDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}
