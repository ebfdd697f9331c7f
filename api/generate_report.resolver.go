package api

import (
	"errors"
	"fmt"

	"quantreport/internal/app"
	"quantreport/internal/domain"

	"github.com/gin-gonic/gin"
)

type generateReportResponse struct {
	Success bool                  `json:"success"`
	Report  *domain.ReportPayload `json:"report"`
}

func (h ApiHandler) generateReport(c *gin.Context) {
	// a panic anywhere in the pipeline must not leak internals
	defer func() {
		if r := recover(); r != nil {
			returnErrorJson(fmt.Errorf("report generation failed"), c)
		}
	}()

	profile, endProfile := domain.NewProfile()
	ctx := domain.NewCtxWithProfile(c.Request.Context(), profile)
	defer endProfile()

	var requestBody app.GenerateReportInput
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid request body: %w", err), c, 400)
		return
	}

	report, err := h.ReportApp.GenerateReport(ctx, requestBody)
	if err != nil {
		if errors.Is(err, domain.ErrMissingInput) {
			returnErrorJsonCode(err, c, 400)
			return
		}
		returnErrorJson(fmt.Errorf("report generation failed"), c)
		return
	}

	c.JSON(200, generateReportResponse{
		Success: true,
		Report:  report,
	})
}
