package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"coursebook/internal/dto"
	"coursebook/internal/service"
	"coursebook/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportXLSX 导出课表为 Excel
// GET /api/v1/timetables/:id/export.xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportXLSX(c.Request.Context(), id, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportICS 导出课表为 iCalendar
// GET /api/v1/timetables/:id/export.ics?start=2025-03-03&weeks=16
func (h *ExportHandler) ExportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ExportICSRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	data, filename, err := h.exportSvc.ExportICS(c.Request.Context(), id, userID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	attachment(c, filename, contentTypeICS, data)
}

// attachment 设置下载响应头并写入文件内容
func attachment(c *gin.Context, filename, contentType string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}
