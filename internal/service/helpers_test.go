package service

import (
	"fmt"
	"strings"
	"testing"

	"campus_erp_backend/internal/model"
	"campus_erp_backend/internal/repository"
	"campus_erp_backend/pkg/database"
	"campus_erp_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

type testEnv struct {
	db       *gorm.DB
	subject  *model.Subject
	students []model.Student

	marks      *repository.MarkRepository
	blueprints *repository.BlueprintRepository

	blueprintSvc *BlueprintService
	markSvc      *MarkService
	gridSvc      *GridService
	transferSvc  *TransferService
}

// newTestEnv opens an in-memory database seeded with one department, one
// subject and a three-student roster. Blueprints are created per test.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	dept := model.Department{Code: "CSE", Name: "Computer Science and Engineering"}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("seed department: %v", err)
	}

	subject := model.Subject{Code: "18CS53", Name: "Database Management Systems", DepartmentID: dept.ID, Semester: 5}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("seed subject: %v", err)
	}

	students := []model.Student{
		{USN: "1CR21CS001", Name: "Anjali Rao", DepartmentID: dept.ID, Semester: 5},
		{USN: "1CR21CS002", Name: "Bharath Kumar", DepartmentID: dept.ID, Semester: 5},
		{USN: "1CR21CS003", Name: "Chitra M", DepartmentID: dept.ID, Semester: 5},
	}
	for i := range students {
		if err := db.Create(&students[i]).Error; err != nil {
			t.Fatalf("seed student: %v", err)
		}
	}

	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db, nil, 0)
	blueprintRepo := repository.NewBlueprintRepository(db)
	markRepo := repository.NewMarkRepository(db)

	gridSvc := NewGridService(blueprintRepo, subjectRepo, studentRepo, markRepo)

	return &testEnv{
		db:           db,
		subject:      &subject,
		students:     students,
		marks:        markRepo,
		blueprints:   blueprintRepo,
		blueprintSvc: NewBlueprintService(blueprintRepo, subjectRepo),
		markSvc:      NewMarkService(markRepo, studentRepo),
		gridSvc:      gridSvc,
		transferSvc:  NewTransferService(blueprintRepo, subjectRepo, studentRepo, markRepo, gridSvc, nil),
	}
}

// standardQuestions is the conventional four-question layout: two sub-parts per
// question, five marks each, so every question totals ten.
func standardQuestions() []QuestionRequest {
	var qs []QuestionRequest
	for no := 1; no <= 4; no++ {
		qs = append(qs, QuestionRequest{
			QuestionNo: no,
			Subs: []SubQuestionRequest{
				{Label: "a", MaxMarks: 5},
				{Label: "b", MaxMarks: 5},
			},
		})
	}
	return qs
}

func (e *testEnv) createStandardBlueprint(t *testing.T, cieNumber int) *model.CIEBlueprint {
	t.Helper()
	bp, err := e.blueprintSvc.CreateOrReplace(BlueprintRequest{
		SubjectID: e.subject.ID,
		CIENumber: cieNumber,
		Questions: standardQuestions(),
	})
	if err != nil {
		t.Fatalf("create blueprint: %v", err)
	}
	return bp
}

// subqID resolves a display label like "Q1a" to its sub-question id.
func (e *testEnv) subqID(t *testing.T, bp *model.CIEBlueprint, display string) uint {
	t.Helper()
	for _, q := range bp.Questions {
		for _, sq := range q.SubQuestions {
			if sq.DisplayLabel(q.QuestionNo) == display {
				return sq.ID
			}
		}
	}
	t.Fatalf("no sub-question labelled %s", display)
	return 0
}

func (e *testEnv) saveMark(t *testing.T, subqID uint, usn string, value float64) {
	t.Helper()
	if err := e.markSvc.SaveMark(subqID, usn, value, 1); err != nil {
		t.Fatalf("save mark %d/%s=%g: %v", subqID, usn, value, err)
	}
}

func (e *testEnv) markCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&model.InternalMark{}).Count(&count).Error; err != nil {
		t.Fatalf("count marks: %v", err)
	}
	return count
}
