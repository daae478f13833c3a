package repository

import (
	"campus_erp_backend/internal/model"

	"gorm.io/gorm"
)

type DepartmentRepository struct {
	DB *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{DB: db}
}

func (r *DepartmentRepository) Create(d *model.Department) error {
	return r.DB.Create(d).Error
}

func (r *DepartmentRepository) FindByID(id uint) (*model.Department, error) {
	var d model.Department
	err := r.DB.First(&d, id).Error
	return &d, err
}

func (r *DepartmentRepository) List() ([]model.Department, error) {
	var ds []model.Department
	err := r.DB.Order("code asc").Find(&ds).Error
	return ds, err
}
