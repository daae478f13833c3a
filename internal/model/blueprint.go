package model

import (
	"fmt"
	"strconv"
	"strings"
)

// CIEBlueprint declares the question/sub-question/max-marks structure for one
// (subject, CIE number) exam instance. Unique on that pair; re-creation replaces
// the structure in place.
// swagger:model CIEBlueprint
type CIEBlueprint struct {
	BaseModel
	SubjectID uint `gorm:"not null;uniqueIndex:idx_subject_cie" json:"subjectId"`
	CIENumber int  `gorm:"not null;uniqueIndex:idx_subject_cie" json:"cieNumber"`

	Questions []BlueprintQuestion `gorm:"foreignKey:BlueprintID;constraint:OnDelete:CASCADE" json:"questions"`
	PartRules []PartRule          `gorm:"foreignKey:BlueprintID;constraint:OnDelete:CASCADE" json:"partRules"`
}

func (CIEBlueprint) TableName() string {
	return "cie_blueprints"
}

// SubQuestionIDs returns every sub-question id in the blueprint.
func (b *CIEBlueprint) SubQuestionIDs() []uint {
	var ids []uint
	for _, q := range b.Questions {
		for _, sq := range q.SubQuestions {
			ids = append(ids, sq.ID)
		}
	}
	return ids
}

// swagger:model BlueprintQuestion
type BlueprintQuestion struct {
	BaseModel
	BlueprintID  uint          `gorm:"not null;index" json:"blueprintId"`
	QuestionNo   int           `gorm:"not null" json:"questionNo"`
	SubQuestions []SubQuestion `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"subs"`
}

func (BlueprintQuestion) TableName() string {
	return "blueprint_questions"
}

// SubQuestion is the smallest gradable unit ("Q1a"). Label holds the sub-part
// only ("a"); the question number comes from the parent.
// swagger:model SubQuestion
type SubQuestion struct {
	BaseModel
	QuestionID uint    `gorm:"not null;index" json:"questionId"`
	Label      string  `gorm:"size:10;not null" json:"label"`
	MaxMarks   float64 `gorm:"not null" json:"maxMarks"`
}

func (SubQuestion) TableName() string {
	return "sub_questions"
}

// DisplayLabel renders the column form, e.g. "Q1a".
func (sq *SubQuestion) DisplayLabel(questionNo int) string {
	return fmt.Sprintf("Q%d%s", questionNo, sq.Label)
}

// PartRule maps an exam part to the question numbers competing for it; the best
// question total within a part counts toward the final mark. The conventional
// CIE layout is A → {1,2}, B → {3,4}.
// swagger:model PartRule
type PartRule struct {
	BaseModel
	BlueprintID uint   `gorm:"not null;index" json:"blueprintId"`
	Part        string `gorm:"size:10;not null" json:"part"`
	QuestionNos string `gorm:"size:50;not null" json:"questionNos"` // comma-separated, e.g. "1,2"
	Order       int    `gorm:"not null;default:0" json:"order"`
}

func (PartRule) TableName() string {
	return "part_rules"
}

// Numbers parses QuestionNos; malformed entries are skipped.
func (r *PartRule) Numbers() []int {
	var nums []int
	for _, part := range strings.Split(r.QuestionNos, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// DefaultPartRules is the Q1/Q2 vs Q3/Q4 best-of convention applied when a
// blueprint is created without explicit part rules.
func DefaultPartRules() []PartRule {
	return []PartRule{
		{Part: "A", QuestionNos: "1,2", Order: 1},
		{Part: "B", QuestionNos: "3,4", Order: 2},
	}
}
