package model

// swagger:model Subject
type Subject struct {
	BaseModel
	Code         string `gorm:"size:20;unique;not null" json:"code"` // e.g. "18CS53"
	Name         string `gorm:"size:150;not null" json:"name"`
	DepartmentID uint   `gorm:"not null;index" json:"departmentId"`
	Semester     int    `gorm:"not null" json:"semester"`
	Credits      int    `gorm:"default:4" json:"credits"`
	FacultyID    *uint  `json:"facultyId"` // assigned instructor

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}
