package database

import (
	"campus_erp_backend/internal/config"
	"campus_erp_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string, forceMigrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认跳过自动迁移，需通过 -migrate 显式触发
	if mode != "release" || forceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
		seedDepartments(db)
	}

	return db, nil
}

// Migrate runs the schema migration for every persistent model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Department{},
		&model.Subject{},
		&model.Student{},
		&model.CIEBlueprint{},
		&model.BlueprintQuestion{},
		&model.SubQuestion{},
		&model.PartRule{},
		&model.InternalMark{},
	)
}

// 默认院系（空库时写入，便于首次部署）
func seedDepartments(db *gorm.DB) {
	var count int64
	db.Model(&model.Department{}).Count(&count)
	if count > 0 {
		return
	}
	defaults := []model.Department{
		{Code: "CSE", Name: "Computer Science and Engineering"},
		{Code: "ISE", Name: "Information Science and Engineering"},
		{Code: "ECE", Name: "Electronics and Communication Engineering"},
		{Code: "ME", Name: "Mechanical Engineering"},
		{Code: "CV", Name: "Civil Engineering"},
	}
	for _, d := range defaults {
		db.Create(&d)
	}
}
