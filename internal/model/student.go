package model

// Student is roster identity only; academic records reference it by USN.
// swagger:model Student
type Student struct {
	BaseModel
	USN          string `gorm:"size:20;unique;not null" json:"usn"` // university seat number
	Name         string `gorm:"size:100;not null" json:"name"`
	DepartmentID uint   `gorm:"not null;index" json:"departmentId"`
	Semester     int    `gorm:"not null;index" json:"semester"`
	Section      string `gorm:"size:5" json:"section"`
	Batch        int    `json:"batch"` // admission year

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Student) TableName() string {
	return "students"
}
