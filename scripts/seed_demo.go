// 手动灌入演示数据脚本
//
// 首次部署后执行一次：写入一个演示科目、六名学生和一份 CIE1 蓝图，
// 方便前端联调。重复执行是安全的，已存在的科目/学号会被跳过。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"campus_erp_backend/internal/config"
	"campus_erp_backend/internal/repository"
	"campus_erp_backend/internal/service"
	"campus_erp_backend/pkg/database"
	"campus_erp_backend/pkg/logger"
	"errors"
	"log"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, true)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	deptRepo := repository.NewDepartmentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db, nil, 0)
	blueprintRepo := repository.NewBlueprintRepository(db)

	academic := service.NewAcademicService(deptRepo, subjectRepo, studentRepo)
	blueprints := service.NewBlueprintService(blueprintRepo, subjectRepo)

	depts, err := deptRepo.List()
	if err != nil || len(depts) == 0 {
		log.Fatalf("院系数据缺失，请先运行迁移: %v", err)
	}
	cse := depts[0]
	for _, d := range depts {
		if d.Code == "CSE" {
			cse = d
		}
	}

	subject, err := subjectRepo.FindByCode("18CS53")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		subject, err = academic.CreateSubject(service.SubjectRequest{
			Code:         "18CS53",
			Name:         "Database Management Systems",
			DepartmentID: cse.ID,
			Semester:     5,
			Credits:      4,
		})
	}
	if err != nil {
		log.Fatalf("写入演示科目失败: %v", err)
	}

	roster := []service.StudentRequest{
		{USN: "1CR21CS001", Name: "Anjali Rao"},
		{USN: "1CR21CS002", Name: "Bharath Kumar"},
		{USN: "1CR21CS003", Name: "Chitra M"},
		{USN: "1CR21CS004", Name: "Deepak S"},
		{USN: "1CR21CS005", Name: "Esha Nair"},
		{USN: "1CR21CS006", Name: "Farhan Ali"},
	}
	for _, st := range roster {
		st.DepartmentID = cse.ID
		st.Semester = 5
		st.Section = "A"
		st.Batch = 2021
		if _, err := academic.CreateStudent(st); err != nil {
			log.Printf("跳过学生 %s: %v", st.USN, err)
		}
	}

	var questions []service.QuestionRequest
	for no := 1; no <= 4; no++ {
		questions = append(questions, service.QuestionRequest{
			QuestionNo: no,
			Subs: []service.SubQuestionRequest{
				{Label: "a", MaxMarks: 5},
				{Label: "b", MaxMarks: 5},
			},
		})
	}
	if _, err := blueprints.CreateOrReplace(service.BlueprintRequest{
		SubjectID: subject.ID,
		CIENumber: 1,
		Questions: questions,
	}); err != nil {
		log.Fatalf("写入演示蓝图失败: %v", err)
	}

	log.Println("演示数据写入完成！")
}
