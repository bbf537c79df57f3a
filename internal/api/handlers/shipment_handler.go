package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logistics-platform/shipment-engine/internal/application"
	"github.com/logistics-platform/shipment-engine/pkg/logging"
	"github.com/logistics-platform/shipment-engine/pkg/middleware"
)

// ShipmentHandler exposes the shipment economics pipeline over HTTP
type ShipmentHandler struct {
	service *application.ShipmentService
	logger  *logging.Logger
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(service *application.ShipmentService, logger *logging.Logger) *ShipmentHandler {
	return &ShipmentHandler{service: service, logger: logger}
}

// RegisterRoutes mounts all shipment routes on the router
func (h *ShipmentHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/shipments", h.CreateShipment)
		api.POST("/classification", h.Classify)
		api.POST("/insurance/quote", h.QuoteInsurance)

		api.POST("/pricing/preview", h.PreviewPricing)
		api.POST("/pricing/bulk", h.PriceBulk)
		api.POST("/pricing/bulk/export", h.ExportBulkCSV)

		api.POST("/awb", h.GenerateAwb)
		api.POST("/awb/:awb/label", h.GenerateLabel)
		api.GET("/awb/:awb/tracking", h.Track)
		api.POST("/awb/tracking/batch", h.TrackBatch)
	}
}

// CreateShipment runs the full pipeline for one shipment
func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	var cmd application.CreateShipmentCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		middleware.NewErrorResponder(c, h.logger.Logger).RespondWithAppError(appErr)
		return
	}

	result := h.service.CreateShipment(c.Request.Context(), cmd)
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Classify runs the classifier and payer rules without side effects
func (h *ShipmentHandler) Classify(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.ClassifyCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, appErr := h.service.Classify(cmd)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// QuoteInsurance returns a standalone insurance quote
func (h *ShipmentHandler) QuoteInsurance(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var query application.InsuranceQuoteQuery
	if appErr := middleware.BindAndValidate(c, &query); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, appErr := h.service.QuoteInsurance(query)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PreviewPricing computes a cost breakdown without side effects
func (h *ShipmentHandler) PreviewPricing(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.PricingPreviewCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, appErr := h.service.PreviewPricing(c.Request.Context(), cmd)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PriceBulk prices many shipments and aggregates per-payer totals
func (h *ShipmentHandler) PriceBulk(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.BulkPricingCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, appErr := h.service.PriceBulk(c.Request.Context(), cmd)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportBulkCSV prices many shipments and returns the summary as a CSV
// download
func (h *ShipmentHandler) ExportBulkCSV(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.BulkPricingCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	csv, appErr := h.service.ExportBulkCSV(c.Request.Context(), cmd)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bulk_shipment_costs.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(csv))
}

// GenerateAwb issues an AWB for a shipment
func (h *ShipmentHandler) GenerateAwb(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.GenerateAwbCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, appErr := h.service.GenerateAwb(c.Request.Context(), cmd)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GenerateLabel fetches or produces a label for an issued AWB
func (h *ShipmentHandler) GenerateLabel(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, appErr := h.service.GenerateLabel(c.Request.Context(), c.Param("awb"))
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Track resolves the tracking history for one AWB
func (h *ShipmentHandler) Track(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, appErr := h.service.Track(c.Request.Context(), c.Param("awb"))
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// TrackBatch resolves tracking for many AWBs
func (h *ShipmentHandler) TrackBatch(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var query application.TrackBatchQuery
	if appErr := middleware.BindAndValidate(c, &query); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	results, appErr := h.service.TrackBatch(c.Request.Context(), query)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	c.JSON(http.StatusOK, results)
}
