package service

import (
	"campus_erp_backend/internal/model"
	"campus_erp_backend/internal/repository"
	"campus_erp_backend/internal/util"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// AcademicService covers the narrow collaborator surfaces the CIE subsystem
// reads from: departments, subjects and the student roster.
type AcademicService struct {
	Departments *repository.DepartmentRepository
	Subjects    *repository.SubjectRepository
	Students    *repository.StudentRepository
}

func NewAcademicService(departments *repository.DepartmentRepository, subjects *repository.SubjectRepository, students *repository.StudentRepository) *AcademicService {
	return &AcademicService{Departments: departments, Subjects: subjects, Students: students}
}

func (s *AcademicService) ListDepartments() ([]model.Department, error) {
	return s.Departments.List()
}

type SubjectRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	DepartmentID uint   `json:"departmentId" binding:"required"`
	Semester     int    `json:"semester" binding:"required"`
	Credits      int    `json:"credits"`
	FacultyID    *uint  `json:"facultyId"`
}

func (s *AcademicService) CreateSubject(req SubjectRequest) (*model.Subject, error) {
	if _, err := s.Departments.FindByID(req.DepartmentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &util.NotFoundError{Resource: "department", Key: strconv.Itoa(int(req.DepartmentID))}
		}
		return nil, err
	}
	if req.Semester < 1 || req.Semester > 8 {
		return nil, util.NewValidationError("semester", "must be between 1 and 8")
	}

	subject := &model.Subject{
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:         strings.TrimSpace(req.Name),
		DepartmentID: req.DepartmentID,
		Semester:     req.Semester,
		Credits:      req.Credits,
		FacultyID:    req.FacultyID,
	}
	if err := s.Subjects.Create(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *AcademicService) ListSubjects(departmentID uint, semester, page, limit int) ([]model.Subject, int64, error) {
	return s.Subjects.List(departmentID, semester, page, limit)
}

type StudentRequest struct {
	USN          string `json:"usn" binding:"required"`
	Name         string `json:"name" binding:"required"`
	DepartmentID uint   `json:"departmentId" binding:"required"`
	Semester     int    `json:"semester" binding:"required"`
	Section      string `json:"section"`
	Batch        int    `json:"batch"`
}

func (s *AcademicService) CreateStudent(req StudentRequest) (*model.Student, error) {
	if _, err := s.Departments.FindByID(req.DepartmentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &util.NotFoundError{Resource: "department", Key: strconv.Itoa(int(req.DepartmentID))}
		}
		return nil, err
	}
	if req.Semester < 1 || req.Semester > 8 {
		return nil, util.NewValidationError("semester", "must be between 1 and 8")
	}

	usn := strings.ToUpper(strings.TrimSpace(req.USN))
	if usn == "" {
		return nil, util.NewValidationError("usn", "must not be empty")
	}
	if _, err := s.Students.FindByUSN(usn); err == nil {
		return nil, &util.ConflictError{Message: "USN already registered", Keys: []string{usn}}
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	student := &model.Student{
		USN:          usn,
		Name:         strings.TrimSpace(req.Name),
		DepartmentID: req.DepartmentID,
		Semester:     req.Semester,
		Section:      strings.ToUpper(strings.TrimSpace(req.Section)),
		Batch:        req.Batch,
	}
	if err := s.Students.Create(student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *AcademicService) ListStudents(departmentID uint, semester, page, limit int) ([]model.Student, int64, error) {
	return s.Students.List(departmentID, semester, page, limit)
}

// Roster returns the read-only roster the grid is built over.
func (s *AcademicService) Roster(subjectID uint) ([]model.Student, error) {
	subject, err := s.Subjects.FindByID(subjectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &util.NotFoundError{Resource: "subject", Key: strconv.Itoa(int(subjectID))}
		}
		return nil, err
	}
	return s.Students.ListForSubject(subject)
}
