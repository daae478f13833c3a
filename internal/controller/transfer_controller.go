package controller

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"campus_erp_backend/internal/service"
	"campus_erp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 10MB 足够覆盖任何一个班级的成绩表
const maxUploadSize = 10 << 20

type TransferController struct {
	TransferService *service.TransferService
}

func NewTransferController(transferService *service.TransferService) *TransferController {
	return &TransferController{TransferService: transferService}
}

// @Summary Download a pre-labelled xlsx marks template
// @Tags transfer
// @Produce application/octet-stream
// @Security ApiKeyAuth
// @Param subjectId query int true "subject id"
// @Param cieNo query int true "CIE number (1-3)"
// @Success 200 {file} binary
// @Router /api/template [get]
func (c *TransferController) DownloadTemplate(ctx *gin.Context) {
	subjectID := util.MustParseUint(ctx.Query("subjectId"))
	cieNo := util.ParsePositiveInt(ctx.Query("cieNo"))
	if subjectID == 0 || cieNo == 0 {
		util.BadRequest(ctx, "subjectId and cieNo are required")
		return
	}

	data, filename, err := c.TransferService.GenerateTemplate(subjectID, cieNo)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	sendAttachment(ctx, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Upload a filled marks sheet (all-or-nothing)
// @Tags transfer
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param subjectId query int true "subject id"
// @Param cieNo query int true "CIE number (1-3)"
// @Param file formData file true "filled xlsx sheet"
// @Success 200 {object} util.Response
// @Router /api/upload [post]
func (c *TransferController) Upload(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	subjectID := util.MustParseUint(ctx.Query("subjectId"))
	cieNo := util.ParsePositiveInt(ctx.Query("cieNo"))
	if subjectID == 0 || cieNo == 0 {
		util.BadRequest(ctx, "subjectId and cieNo are required")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		util.BadRequest(ctx, "file exceeds 10MB limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	// xlsx 本质是 zip 容器
	mime, err := util.ValidateMimeType(bytes.NewReader(data), []string{"application/zip"})
	if err != nil || !util.IsSpreadsheet(mime) {
		util.BadRequest(ctx, "only .xlsx files are accepted")
		return
	}

	result, err := c.TransferService.ParseUpload(subjectID, cieNo, data, user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Export the marks grid as xlsx, csv or pdf
// @Tags transfer
// @Produce application/octet-stream
// @Security ApiKeyAuth
// @Param subjectId query int true "subject id"
// @Param cieNo query int true "CIE number (1-3)"
// @Param format query string false "xlsx | csv | pdf" default(xlsx)
// @Success 200 {file} binary
// @Router /api/export [get]
func (c *TransferController) Export(ctx *gin.Context) {
	subjectID := util.MustParseUint(ctx.Query("subjectId"))
	cieNo := util.ParsePositiveInt(ctx.Query("cieNo"))
	if subjectID == 0 || cieNo == 0 {
		util.BadRequest(ctx, "subjectId and cieNo are required")
		return
	}

	format := ctx.DefaultQuery("format", "xlsx")
	data, filename, contentType, err := c.TransferService.ExportGrid(subjectID, cieNo, format)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	sendAttachment(ctx, filename, contentType, data)
}

func sendAttachment(ctx *gin.Context, filename, contentType string, data []byte) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, contentType, data)
}
