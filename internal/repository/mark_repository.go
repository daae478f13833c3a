package repository

import (
	"campus_erp_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MarkRepository struct {
	DB *gorm.DB
}

func NewMarkRepository(db *gorm.DB) *MarkRepository {
	return &MarkRepository{DB: db}
}

// markConflict is the upsert clause keyed on the (sub_question_id, student_usn)
// unique index. A single INSERT ... ON DUPLICATE KEY / ON CONFLICT statement,
// so concurrent saves to the same cell never race a separate existence check.
var markConflict = clause.OnConflict{
	Columns: []clause.Column{{Name: "sub_question_id"}, {Name: "student_usn"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"value", "recorded_by", "updated_at",
	}),
}

// Upsert atomically creates or replaces the mark for its composite key.
func (r *MarkRepository) Upsert(m *model.InternalMark) error {
	return r.DB.Clauses(markConflict).Create(m).Error
}

// BulkUpsert writes every mark inside one transaction; either all rows persist
// or none do. Returns how many keys were newly created vs overwritten.
func (r *MarkRepository) BulkUpsert(marks []model.InternalMark) (created int64, updated int64, err error) {
	if len(marks) == 0 {
		return 0, 0, nil
	}

	err = r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range marks {
			var count int64
			if err := tx.Model(&model.InternalMark{}).
				Where("sub_question_id = ? AND student_usn = ?", marks[i].SubQuestionID, marks[i].StudentUSN).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				updated++
			} else {
				created++
			}
		}
		return tx.Clauses(markConflict).Create(&marks).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return created, updated, nil
}

func (r *MarkRepository) FindByKey(subQuestionID uint, usn string) (*model.InternalMark, error) {
	var m model.InternalMark
	err := r.DB.Where("sub_question_id = ? AND student_usn = ?", subQuestionID, usn).First(&m).Error
	return &m, err
}

func (r *MarkRepository) FindSubQuestion(id uint) (*model.SubQuestion, error) {
	var sq model.SubQuestion
	err := r.DB.First(&sq, id).Error
	return &sq, err
}

// ListForBlueprint returns every mark recorded against the given sub-questions,
// optionally narrowed to a set of roster USNs.
func (r *MarkRepository) ListForBlueprint(subQuestionIDs []uint, usns []string) ([]model.InternalMark, error) {
	if len(subQuestionIDs) == 0 {
		return nil, nil
	}
	query := r.DB.Where("sub_question_id IN ?", subQuestionIDs)
	if len(usns) > 0 {
		query = query.Where("student_usn IN ?", usns)
	}
	var marks []model.InternalMark
	err := query.Find(&marks).Error
	return marks, err
}
