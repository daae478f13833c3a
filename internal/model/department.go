package model

// swagger:model Department
type Department struct {
	BaseModel
	Code string `gorm:"size:10;unique;not null" json:"code"` // e.g. "CSE"
	Name string `gorm:"size:100;not null" json:"name"`
}

func (Department) TableName() string {
	return "departments"
}
