package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-api/internal/application/service"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmacy-api/pkg/pagination"
)

// DispenseHandler handles dispensing and bill HTTP requests
type DispenseHandler struct {
	dispenseService *service.DispenseService
	printerService  *service.PrinterService
}

// NewDispenseHandler creates a new dispense handler
func NewDispenseHandler(dispenseService *service.DispenseService, printerService *service.PrinterService) *DispenseHandler {
	return &DispenseHandler{
		dispenseService: dispenseService,
		printerService:  printerService,
	}
}

// Dispense handles a dispensing order
// @Summary Dispense medicines
// @Description Validates the whole order, records every line under one bill and deducts stock
// @Tags dispensing
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection"
// @Param request body request.DispenseRequest true "Order"
// @Success 201 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse "Partial failure with per-line outcomes"
// @Failure 503 {object} response.APIResponse
// @Router /dispensing [post]
func (h *DispenseHandler) Dispense(c *gin.Context) {
	var req request.DispenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	dispensedBy := req.DispensedBy
	if dispensedBy == "" {
		dispensedBy = GetOperatorName(c)
	}

	input := &service.DispenseInput{
		PatientName: req.PatientName,
		PatientID:   req.PatientID,
		DoctorName:  req.DoctorName,
		DispensedBy: dispensedBy,
		PaymentMode: req.PaymentMode,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, service.DispenseLineInput{MedicineID: line.MedicineID, Quantity: line.Quantity})
	}

	result, err := h.dispenseService.Dispense(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	printed := false
	if req.Print && h.printerService != nil {
		if err := h.printerService.PrintReceipt(c.Request.Context(), result.Receipt); err != nil {
			log.Printf("Bill %s dispensed but not printed: %v", result.BillNumber, err)
		} else {
			printed = true
		}
	}

	response.Created(c, "Medicines dispensed successfully", gin.H{
		"bill_number":   result.BillNumber,
		"records":       result.Records,
		"receipt_total": pricing.FromHundredths(result.ReceiptTotal).InexactFloat64(),
		"receipt":       result.Receipt,
		"printed":       printed,
	})
}

// ListRecords handles paging through dispensing history, newest first
func (h *DispenseHandler) ListRecords(c *gin.Context) {
	var req request.DispenseHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.dispenseService.ListRecords(c.Request.Context(), &pagination.CursorParams{
		Cursor: req.Cursor,
		Limit:  req.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Dispensing records retrieved successfully", result)
}

// GetBill handles fetching every line of a bill
func (h *DispenseHandler) GetBill(c *gin.Context) {
	records, err := h.dispenseService.GetBill(c.Request.Context(), c.Param("bill"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", records)
}

// GetReceipt handles rebuilding a bill's receipt payload
func (h *DispenseHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.dispenseService.GetReceipt(c.Request.Context(), c.Param("bill"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt generated", receipt)
}

// GetReceiptPDF streams the bill as a PDF
func (h *DispenseHandler) GetReceiptPDF(c *gin.Context) {
	bill := c.Param("bill")
	data, err := h.printerService.BillPDF(c.Request.Context(), bill)
	if err != nil {
		response.Error(c, err)
		return
	}

	attachment(c, bill+".pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}

// PrintBill reprints a past bill on the thermal printer
func (h *DispenseHandler) PrintBill(c *gin.Context) {
	receipt, err := h.printerService.PrintBill(c.Request.Context(), c.Param("bill"))
	if err != nil {
		// the receipt was built but the printer failed
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}
