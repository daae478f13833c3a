package repository

import (
	"campus_erp_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(s *model.Subject) error {
	return r.DB.Create(s).Error
}

func (r *SubjectRepository) FindByID(id uint) (*model.Subject, error) {
	var s model.Subject
	err := r.DB.Preload("Department").First(&s, id).Error
	return &s, err
}

func (r *SubjectRepository) FindByCode(code string) (*model.Subject, error) {
	var s model.Subject
	err := r.DB.Where("code = ?", code).First(&s).Error
	return &s, err
}

func (r *SubjectRepository) List(departmentID uint, semester int, page, limit int) ([]model.Subject, int64, error) {
	var subjects []model.Subject
	var total int64
	query := r.DB.Model(&model.Subject{})
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
	err := query.Order("code asc").Offset(offset).Limit(limit).Find(&subjects).Error
	return subjects, total, err
}
