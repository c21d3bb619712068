package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"invosync/internal/csvexport"
	"invosync/internal/domain"
	"invosync/internal/service"
)

// InvoiceHandler handles invoice processing, listing, and update endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// requestEmail pulls the user email from the form, query, or header.
func requestEmail(c *gin.Context) string {
	if email := c.PostForm("email"); email != "" {
		return email
	}
	if email := c.Query("email"); email != "" {
		return email
	}
	return c.GetHeader("X-User-Email")
}

// Process handles POST /api/process
func (h *InvoiceHandler) Process(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.Process(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	switch result.Outcome {
	case domain.OutcomeDuplicate:
		RespondError(c, http.StatusConflict, "DUPLICATE_INVOICE", "invoice already uploaded")
	case domain.OutcomePartial:
		// Durable in the document store, spreadsheet projection is stale.
		c.JSON(http.StatusMultiStatus, APIResponse{
			Success: true,
			Data: gin.H{
				"message": "invoice stored, but the spreadsheet mirror failed",
				"invoice": result.Record,
			},
		})
	default:
		RespondOK(c, gin.H{
			"message": "invoice stored successfully",
			"invoice": result.Record,
		})
	}
}

// ProcessArchive handles POST /api/process_zip
func (h *InvoiceHandler) ProcessArchive(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	results, err := h.invoiceService.ProcessArchive(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"results": results})
}

// List handles GET /api/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	email := requestEmail(c)
	if email == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_EMAIL", "email is required")
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), email)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"invoices": invoices})
}

// Export handles GET /api/invoices/export
func (h *InvoiceHandler) Export(c *gin.Context) {
	email := requestEmail(c)
	if email == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_EMAIL", "email is required")
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), email)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(email)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	// BOM so Excel detects UTF-8.
	_, _ = c.Writer.Write(csvexport.BOM)

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteInvoices(invoices); err != nil {
		return
	}
	w.Flush()
}

type updateInvoiceRequest struct {
	UserEmail   string         `json:"user_email" binding:"required"`
	DocID       string         `json:"doc_id" binding:"required"`
	UpdatedData map[string]any `json:"updated_data" binding:"required"`
}

// Update handles POST /api/update_invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "user_email, doc_id, and updated_data are required")
		return
	}

	docID, err := h.invoiceService.Update(c.Request.Context(), req.UserEmail, req.DocID, req.UpdatedData)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message": "invoice updated successfully",
		"doc_id":  docID,
	})
}

// readUpload reads the multipart file and email, writing the error response
// itself when either is missing.
func (h *InvoiceHandler) readUpload(c *gin.Context) (service.ProcessInput, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return service.ProcessInput{}, false
	}
	defer func() { _ = file.Close() }()

	email := requestEmail(c)
	if email == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_EMAIL", "email is required")
		return service.ProcessInput{}, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return service.ProcessInput{}, false
	}

	return service.ProcessInput{
		FileName:  header.Filename,
		FileBytes: data,
		Email:     email,
	}, true
}
