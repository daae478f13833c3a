package repository

import (
	"campus_erp_backend/internal/model"
	"campus_erp_backend/internal/util"
	"fmt"

	"gorm.io/gorm"
)

type BlueprintRepository struct {
	DB *gorm.DB
}

func NewBlueprintRepository(db *gorm.DB) *BlueprintRepository {
	return &BlueprintRepository{DB: db}
}

func (r *BlueprintRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_no asc")
		}).
		Preload("Questions.SubQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("label asc")
		}).
		Preload("PartRules", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` asc")
		})
}

// FindByKey loads the blueprint for one (subject, CIE number) exam instance.
// Absence surfaces as gorm.ErrRecordNotFound; callers decide whether that is an
// error or just "not configured yet".
func (r *BlueprintRepository) FindByKey(subjectID uint, cieNumber int) (*model.CIEBlueprint, error) {
	var bp model.CIEBlueprint
	err := r.preload(r.DB).
		Where("subject_id = ? AND cie_number = ?", subjectID, cieNumber).
		First(&bp).Error
	return &bp, err
}

func (r *BlueprintRepository) FindByID(id uint) (*model.CIEBlueprint, error) {
	var bp model.CIEBlueprint
	err := r.preload(r.DB).First(&bp, id).Error
	return &bp, err
}

// CreateOrReplace persists the structure for (subjectID, cieNumber). When a
// blueprint already exists for the key the structure is updated in place:
// sub-questions matched by (questionNo, label) keep their ids so recorded marks
// stay attached; unmatched ones are removed, but removal is rejected with a
// ConflictError when marks already reference them.
func (r *BlueprintRepository) CreateOrReplace(subjectID uint, cieNumber int, questions []model.BlueprintQuestion, rules []model.PartRule) (*model.CIEBlueprint, error) {
	var result *model.CIEBlueprint

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var bp model.CIEBlueprint
		err := tx.Where("subject_id = ? AND cie_number = ?", subjectID, cieNumber).First(&bp).Error
		if err == gorm.ErrRecordNotFound {
			bp = model.CIEBlueprint{SubjectID: subjectID, CIENumber: cieNumber}
			if err := tx.Create(&bp).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := r.replaceStructure(tx, &bp, questions, rules); err != nil {
			return err
		}

		result = &bp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(result.ID)
}

// ReplaceByID rewrites the question structure of an existing blueprint under the
// same mark-safety rules as CreateOrReplace.
func (r *BlueprintRepository) ReplaceByID(id uint, questions []model.BlueprintQuestion, rules []model.PartRule) (*model.CIEBlueprint, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var bp model.CIEBlueprint
		if err := tx.First(&bp, id).Error; err != nil {
			return err
		}
		return r.replaceStructure(tx, &bp, questions, rules)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *BlueprintRepository) replaceStructure(tx *gorm.DB, bp *model.CIEBlueprint, questions []model.BlueprintQuestion, rules []model.PartRule) error {
	var existing []model.BlueprintQuestion
	if err := tx.Preload("SubQuestions").Where("blueprint_id = ?", bp.ID).Find(&existing).Error; err != nil {
		return err
	}

	type subKey struct {
		questionNo int
		label      string
	}
	existingSubs := make(map[subKey]*model.SubQuestion)
	existingQuestions := make(map[int]*model.BlueprintQuestion)
	for i := range existing {
		q := &existing[i]
		existingQuestions[q.QuestionNo] = q
		for j := range q.SubQuestions {
			existingSubs[subKey{q.QuestionNo, q.SubQuestions[j].Label}] = &q.SubQuestions[j]
		}
	}

	kept := make(map[uint]bool)
	for qi := range questions {
		q := &questions[qi]
		q.BlueprintID = bp.ID

		if prev, ok := existingQuestions[q.QuestionNo]; ok {
			q.ID = prev.ID
		} else {
			nq := model.BlueprintQuestion{BlueprintID: bp.ID, QuestionNo: q.QuestionNo}
			if err := tx.Create(&nq).Error; err != nil {
				return err
			}
			q.ID = nq.ID
		}

		for si := range q.SubQuestions {
			sq := &q.SubQuestions[si]
			sq.QuestionID = q.ID
			if prev, ok := existingSubs[subKey{q.QuestionNo, sq.Label}]; ok {
				sq.ID = prev.ID
				kept[prev.ID] = true
				if err := tx.Model(&model.SubQuestion{}).Where("id = ?", prev.ID).
					Updates(map[string]interface{}{"max_marks": sq.MaxMarks, "question_id": q.ID}).Error; err != nil {
					return err
				}
			} else if err := tx.Create(sq).Error; err != nil {
				return err
			}
		}
	}

	// Sub-questions absent from the new structure can only go if no marks
	// reference them; orphaning recorded grades silently is not an option.
	var removedIDs []uint
	var removedLabels []string
	for key, sq := range existingSubs {
		if !kept[sq.ID] {
			removedIDs = append(removedIDs, sq.ID)
			removedLabels = append(removedLabels, fmt.Sprintf("Q%d%s", key.questionNo, key.label))
		}
	}
	if len(removedIDs) > 0 {
		var markCount int64
		if err := tx.Model(&model.InternalMark{}).Where("sub_question_id IN ?", removedIDs).Count(&markCount).Error; err != nil {
			return err
		}
		if markCount > 0 {
			return &util.ConflictError{
				Message: "cannot remove sub-questions with recorded marks",
				Keys:    removedLabels,
			}
		}
		if err := tx.Where("id IN ?", removedIDs).Delete(&model.SubQuestion{}).Error; err != nil {
			return err
		}
	}

	// Questions no longer present in the new structure.
	newNos := make(map[int]bool, len(questions))
	for _, q := range questions {
		newNos[q.QuestionNo] = true
	}
	for no, q := range existingQuestions {
		if !newNos[no] {
			if err := tx.Delete(&model.BlueprintQuestion{}, q.ID).Error; err != nil {
				return err
			}
		}
	}

	// Part rules carry no marks; replace wholesale.
	if err := tx.Where("blueprint_id = ?", bp.ID).Delete(&model.PartRule{}).Error; err != nil {
		return err
	}
	for i := range rules {
		rules[i].ID = 0
		rules[i].BlueprintID = bp.ID
		if err := tx.Create(&rules[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
