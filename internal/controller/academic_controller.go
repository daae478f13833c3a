package controller

import (
	"campus_erp_backend/internal/service"
	"campus_erp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AcademicController struct {
	AcademicService *service.AcademicService
}

func NewAcademicController(academicService *service.AcademicService) *AcademicController {
	return &AcademicController{AcademicService: academicService}
}

// @Summary List departments
// @Tags academic
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/departments [get]
func (c *AcademicController) ListDepartments(ctx *gin.Context) {
	departments, err := c.AcademicService.ListDepartments()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, departments)
}

// @Summary Create a subject
// @Tags academic
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubjectRequest true "subject"
// @Success 201 {object} util.Response
// @Router /api/subjects [post]
func (c *AcademicController) CreateSubject(ctx *gin.Context) {
	var req service.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.AcademicService.CreateSubject(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// @Summary List subjects, optionally filtered by department and semester
// @Tags academic
// @Produce json
// @Security ApiKeyAuth
// @Param departmentId query int false "department id"
// @Param semester query int false "semester"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/subjects [get]
func (c *AcademicController) ListSubjects(ctx *gin.Context) {
	departmentID := util.MustParseUint(ctx.Query("departmentId"))
	semester := util.ParsePositiveInt(ctx.Query("semester"))
	page := util.ParsePositiveInt(ctx.DefaultQuery("page", "1"))
	limit := util.ParsePositiveInt(ctx.DefaultQuery("limit", "20"))
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}

	subjects, total, err := c.AcademicService.ListSubjects(departmentID, semester, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: subjects, Total: total, Page: page, Limit: limit})
}

// @Summary Register a student
// @Tags academic
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.StudentRequest true "student"
// @Success 201 {object} util.Response
// @Router /api/students [post]
func (c *AcademicController) CreateStudent(ctx *gin.Context) {
	var req service.StudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.AcademicService.CreateStudent(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, student)
}

// @Summary List students, optionally filtered by department and semester
// @Tags academic
// @Produce json
// @Security ApiKeyAuth
// @Param departmentId query int false "department id"
// @Param semester query int false "semester"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(50)
// @Success 200 {object} util.Response
// @Router /api/students [get]
func (c *AcademicController) ListStudents(ctx *gin.Context) {
	departmentID := util.MustParseUint(ctx.Query("departmentId"))
	semester := util.ParsePositiveInt(ctx.Query("semester"))
	page := util.ParsePositiveInt(ctx.DefaultQuery("page", "1"))
	limit := util.ParsePositiveInt(ctx.DefaultQuery("limit", "50"))
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 50
	}

	students, total, err := c.AcademicService.ListStudents(departmentID, semester, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: students, Total: total, Page: page, Limit: limit})
}

// @Summary Class roster for a subject
// @Tags academic
// @Produce json
// @Security ApiKeyAuth
// @Param subjectId query int true "subject id"
// @Success 200 {object} util.Response
// @Router /api/roster [get]
func (c *AcademicController) Roster(ctx *gin.Context) {
	subjectID := util.MustParseUint(ctx.Query("subjectId"))
	if subjectID == 0 {
		util.BadRequest(ctx, "subjectId is required")
		return
	}

	students, err := c.AcademicService.Roster(subjectID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, students)
}
