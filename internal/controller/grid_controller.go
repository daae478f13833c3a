package controller

import (
	"campus_erp_backend/internal/service"
	"campus_erp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GridController struct {
	GridService *service.GridService
}

func NewGridController(gridService *service.GridService) *GridController {
	return &GridController{GridService: gridService}
}

// @Summary Build the marks grid for a (subject, CIE) pair
// @Tags grid
// @Produce json
// @Security ApiKeyAuth
// @Param subjectId query int true "subject id"
// @Param cieNo query int true "CIE number (1-3)"
// @Success 200 {object} util.Response
// @Router /api/grid [get]
func (c *GridController) GetGrid(ctx *gin.Context) {
	subjectID := util.MustParseUint(ctx.Query("subjectId"))
	cieNo := util.ParsePositiveInt(ctx.Query("cieNo"))
	if subjectID == 0 || cieNo == 0 {
		util.BadRequest(ctx, "subjectId and cieNo are required")
		return
	}

	grid, err := c.GridService.BuildGrid(subjectID, cieNo)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, grid)
}
