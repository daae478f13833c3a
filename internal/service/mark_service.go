package service

import (
	"campus_erp_backend/internal/model"
	"campus_erp_backend/internal/repository"
	"campus_erp_backend/internal/util"
	"campus_erp_backend/pkg/monitoring"
	"strconv"

	"gorm.io/gorm"
)

// MarkService handles single-cell saves from the editable grid. Each call is
// one atomic upsert; the server holds no per-cell locks, superseded in-flight
// requests are a client-side cancellation concern.
type MarkService struct {
	Marks    *repository.MarkRepository
	Students *repository.StudentRepository
}

func NewMarkService(marks *repository.MarkRepository, students *repository.StudentRepository) *MarkService {
	return &MarkService{Marks: marks, Students: students}
}

// SaveMark validates and persists one (sub-question, student) score. Failures
// are field-scoped so the rest of the grid session stays usable.
func (s *MarkService) SaveMark(subQuestionID uint, studentUSN string, value float64, recordedBy uint) error {
	sq, err := s.Marks.FindSubQuestion(subQuestionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &util.NotFoundError{Resource: "sub-question", Key: strconv.Itoa(int(subQuestionID))}
		}
		return err
	}

	if _, err := s.Students.FindByUSN(studentUSN); err != nil {
		if err == gorm.ErrRecordNotFound {
			return &util.NotFoundError{Resource: "student", Key: studentUSN}
		}
		return err
	}

	if value < 0 || value > sq.MaxMarks {
		return util.NewValidationError("marks", "max is %g", sq.MaxMarks)
	}

	err = s.Marks.Upsert(&model.InternalMark{
		SubQuestionID: subQuestionID,
		StudentUSN:    studentUSN,
		Value:         value,
		RecordedBy:    recordedBy,
	})
	if err != nil {
		return err
	}

	monitoring.MarkWrites.WithLabelValues("cell").Inc()
	return nil
}
