package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"csv_manager_backend/internal/models"
	"csv_manager_backend/internal/services"
	"csv_manager_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TemplateHandler holds the template service.
type TemplateHandler struct {
	templateService services.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(ts services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: ts}
}

// GenerateClientProfile returns a client-profile CSV template as a download.
func (h *TemplateHandler) GenerateClientProfile(c *gin.Context) {
	var opts models.ProfileTemplateOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
			return
		}
	}

	data, err := h.templateService.EncodeProfileTemplate(opts)
	if err != nil {
		if errors.Is(err, services.ErrTemplateValidation) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		utils.LogError(err, "GenerateClientProfile: Error from templateService")
		utils.RespondInternal(c, "Failed to generate template.")
		return
	}

	filename := fmt.Sprintf("generated_template_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
