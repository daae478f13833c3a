package controller

import (
	"campus_erp_backend/internal/service"
	"campus_erp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MarkController struct {
	MarkService *service.MarkService
}

func NewMarkController(markService *service.MarkService) *MarkController {
	return &MarkController{MarkService: markService}
}

type saveMarkRequest struct {
	SubqID     uint     `json:"subqId" binding:"required"`
	StudentUSN string   `json:"studentUsn" binding:"required"`
	Marks      *float64 `json:"marks" binding:"required"`
}

// @Summary Save one grid cell (sub-question × student)
// @Tags marks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body saveMarkRequest true "one cell"
// @Success 200 {object} util.Response
// @Router /api/marks [post]
func (c *MarkController) SaveMark(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req saveMarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MarkService.SaveMark(req.SubqID, req.StudentUSN, *req.Marks, user.UserID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true})
}
