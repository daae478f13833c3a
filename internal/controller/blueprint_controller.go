package controller

import (
	"campus_erp_backend/internal/service"
	"campus_erp_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BlueprintController struct {
	BlueprintService *service.BlueprintService
}

func NewBlueprintController(blueprintService *service.BlueprintService) *BlueprintController {
	return &BlueprintController{BlueprintService: blueprintService}
}

// @Summary Create or replace the CIE blueprint for a (subject, CIE) pair
// @Tags blueprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.BlueprintRequest true "blueprint structure"
// @Success 201 {object} util.Response
// @Router /api/blueprint [post]
func (c *BlueprintController) Create(ctx *gin.Context) {
	var req service.BlueprintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	bp, err := c.BlueprintService.CreateOrReplace(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, bp)
}

// @Summary Get the blueprint for a (subject, CIE) pair
// @Tags blueprint
// @Produce json
// @Security ApiKeyAuth
// @Param subjectId query int true "subject id"
// @Param cieNo query int true "CIE number (1-3)"
// @Success 200 {object} util.Response
// @Router /api/blueprint [get]
func (c *BlueprintController) Get(ctx *gin.Context) {
	subjectID := util.MustParseUint(ctx.Query("subjectId"))
	cieNo := util.ParsePositiveInt(ctx.Query("cieNo"))
	if subjectID == 0 || cieNo == 0 {
		util.BadRequest(ctx, "subjectId and cieNo are required")
		return
	}

	bp, err := c.BlueprintService.Get(subjectID, cieNo)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// absence means "not configured yet", the client prompts for creation
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, bp)
}

type blueprintUpdateRequest struct {
	Questions []service.QuestionRequest `json:"questions" binding:"required"`
	PartRules []service.PartRuleRequest `json:"partRules"`
}

// @Summary Rewrite the question structure of an existing blueprint
// @Tags blueprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "blueprint id"
// @Param body body blueprintUpdateRequest true "new structure"
// @Success 200 {object} util.Response
// @Router /api/blueprint/{id} [put]
func (c *BlueprintController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid blueprint id")
		return
	}

	var req blueprintUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	bp, err := c.BlueprintService.Update(id, req.Questions, req.PartRules)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, bp)
}
