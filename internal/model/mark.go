package model

// InternalMark is one recorded score for one sub-question of one student.
// Exactly one row may exist per (sub_question_id, student_usn); writes are
// upserts on that composite key.
// swagger:model InternalMark
type InternalMark struct {
	BaseModel
	SubQuestionID uint    `gorm:"not null;uniqueIndex:idx_subq_student" json:"subqId"`
	StudentUSN    string  `gorm:"size:20;not null;uniqueIndex:idx_subq_student" json:"studentUsn"`
	Value         float64 `gorm:"not null" json:"value"`
	RecordedBy    uint    `json:"recordedBy"` // faculty user id
}

func (InternalMark) TableName() string {
	return "internal_marks"
}
