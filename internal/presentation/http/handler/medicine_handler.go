package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-api/internal/application/service"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/dto/response"
)

// MedicineHandler handles inventory HTTP requests
type MedicineHandler struct {
	medicineService *service.MedicineService
	reportService   *service.ReportService
	uploadMaxSize   int64
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(medicineService *service.MedicineService, reportService *service.ReportService, uploadMaxSize int64) *MedicineHandler {
	return &MedicineHandler{
		medicineService: medicineService,
		reportService:   reportService,
		uploadMaxSize:   uploadMaxSize,
	}
}

func (h *MedicineHandler) filterParams(c *gin.Context) (*repository.MedicineFilterParams, bool) {
	var filter request.MedicineFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	params := &repository.MedicineFilterParams{Search: filter.Search}
	if filter.Status != "" {
		status, err := enum.ParseMedicineStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return nil, false
		}
		params.Status = &status
	}
	return params, true
}

// List handles listing medicines ordered by name
// @Summary List medicines
// @Tags medicines
// @Produce json
// @Param search query string false "Name or batch number contains"
// @Param status query string false "available, out_of_stock or completed"
// @Success 200 {object} response.APIResponse
// @Router /medicines [get]
func (h *MedicineHandler) List(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	medicines, err := h.medicineService.ListMedicines(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicines retrieved successfully", medicines)
}

// Create handles adding a medicine
func (h *MedicineHandler) Create(c *gin.Context) {
	var req request.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	changed, err := parseChangedField(req.ChangedField)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	medicine, err := h.medicineService.CreateMedicine(c.Request.Context(), &service.CreateMedicineInput{
		Name:        req.Name,
		BatchNumber: req.BatchNumber,
		HSNCode:     req.HSNCode,
		Quantity:    req.Quantity,
		ExpiryDate:  req.ExpiryDate,
		Pricing: service.PricingInput{
			Price:         req.Price,
			GSTPercentage: req.GSTPercentage,
			GSTAmount:     req.GSTAmount,
			Changed:       changed,
		},
		Status: req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Medicine created successfully", medicine)
}

// Get handles fetching one medicine
func (h *MedicineHandler) Get(c *gin.Context) {
	medicine, err := h.medicineService.GetMedicine(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine retrieved successfully", medicine)
}

// Update handles a partial edit
func (h *MedicineHandler) Update(c *gin.Context) {
	var req request.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	changed, err := parseChangedField(req.ChangedField)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	medicine, err := h.medicineService.UpdateMedicine(c.Request.Context(), &service.UpdateMedicineInput{
		ID:             c.Param("id"),
		Name:           req.Name,
		BatchNumber:    req.BatchNumber,
		HSNCode:        req.HSNCode,
		Quantity:       req.Quantity,
		ExpiryDate:     req.ExpiryDate,
		Price:          req.Price,
		GSTPercentage:  req.GSTPercentage,
		GSTAmount:      req.GSTAmount,
		PricingChanged: changed,
		Status:         req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine updated successfully", medicine)
}

// UpdateStatus handles setting the status by hand
func (h *MedicineHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateMedicineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	medicine, err := h.medicineService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine status updated successfully", medicine)
}

// Delete handles removing a medicine
func (h *MedicineHandler) Delete(c *gin.Context) {
	if err := h.medicineService.DeleteMedicine(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine deleted successfully", nil)
}

// CalculatePricing recomputes the dependent price fields without saving
func (h *MedicineHandler) CalculatePricing(c *gin.Context) {
	var req request.PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	changed, err := parseChangedField(req.ChangedField)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.medicineService.CalculatePricing(service.PricingInput{
		Price:         req.Price,
		GSTPercentage: req.GSTPercentage,
		GSTAmount:     req.GSTAmount,
		Changed:       changed,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pricing calculated", gin.H{
		"price":          b.Price.InexactFloat64(),
		"gst_percentage": b.GSTPercentage.InexactFloat64(),
		"gst_amount":     b.GSTAmount.InexactFloat64(),
		"total_amount":   b.TotalAmount.InexactFloat64(),
	})
}

// Import handles an xlsx upload in the "file" form field
func (h *MedicineHandler) Import(c *gin.Context) {
	if h.uploadMaxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadMaxSize)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "An xlsx file is required in the 'file' field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.reportService.ImportStock(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Import completed", result)
}

// Export streams the stock report as xlsx
func (h *MedicineHandler) Export(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	report, err := h.reportService.ExportStock(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	attachment(c, report.Filename)
	c.Data(http.StatusOK, report.ContentType, report.Data)
}
