package repository

import (
	"campus_erp_backend/internal/model"
	"campus_erp_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StudentRepository serves roster reads. The per-subject roster is cached in
// redis with a short TTL; rdb may be nil, in which case every read hits MySQL.
type StudentRepository struct {
	DB       *gorm.DB
	RDB      *redis.Client
	CacheTTL time.Duration
}

func NewStudentRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *StudentRepository {
	return &StudentRepository{DB: db, RDB: rdb, CacheTTL: cacheTTL}
}

func (r *StudentRepository) Create(s *model.Student) error {
	if err := r.DB.Create(s).Error; err != nil {
		return err
	}
	r.invalidateRoster(s.DepartmentID, s.Semester)
	return nil
}

func (r *StudentRepository) FindByUSN(usn string) (*model.Student, error) {
	var s model.Student
	err := r.DB.Where("usn = ?", usn).First(&s).Error
	return &s, err
}

// ListForSubject returns the roster a subject is taught to, ordered by USN so
// grid rows and template rows line up across calls.
func (r *StudentRepository) ListForSubject(subject *model.Subject) ([]model.Student, error) {
	key := rosterKey(subject.DepartmentID, subject.Semester)

	if r.RDB != nil {
		if cached, err := r.RDB.Get(context.Background(), key).Result(); err == nil {
			var students []model.Student
			if err := json.Unmarshal([]byte(cached), &students); err == nil {
				return students, nil
			}
		}
	}

	var students []model.Student
	err := r.DB.Where("department_id = ? AND semester = ?", subject.DepartmentID, subject.Semester).
		Order("usn asc").Find(&students).Error
	if err != nil {
		return nil, err
	}

	if r.RDB != nil {
		if payload, err := json.Marshal(students); err == nil {
			if err := r.RDB.Set(context.Background(), key, payload, r.CacheTTL).Err(); err != nil {
				logger.Log.Warn("roster cache write failed", zap.Error(err))
			}
		}
	}

	return students, nil
}

func (r *StudentRepository) List(departmentID uint, semester int, page, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64
	query := r.DB.Model(&model.Student{})
	if departmentID > 0 {
		query = query.Where("department_id = ?", departmentID)
	}
	if semester > 0 {
		query = query.Where("semester = ?", semester)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("usn asc").Offset(offset).Limit(limit).Find(&students).Error
	return students, total, err
}

func (r *StudentRepository) invalidateRoster(departmentID uint, semester int) {
	if r.RDB == nil {
		return
	}
	if err := r.RDB.Del(context.Background(), rosterKey(departmentID, semester)).Err(); err != nil {
		logger.Log.Warn("roster cache invalidation failed", zap.Error(err))
	}
}

func rosterKey(departmentID uint, semester int) string {
	return fmt.Sprintf("roster:dept:%d:sem:%d", departmentID, semester)
}
