package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/pt-logbook/internal/application/service"
)

// CreateLogbookRequest opens a week starting on from_date (YYYY-MM-DD)
type CreateLogbookRequest struct {
	WeekNumber   int    `json:"week_number" binding:"required,min=1"`
	FromDate     string `json:"from_date" binding:"required"`
	WeekActivity string `json:"week_activity"`
}

// EntryRequest holds a daily entry with a YYYY-MM-DD date
type EntryRequest struct {
	Date     string `json:"date"`
	Activity string `json:"activity"`
}

// ListLogbooks handles GET /api/logbooks
func (h *Handlers) ListLogbooks(c *gin.Context) {
	catalog, err := h.services.Logbook.Catalog(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, catalog)
}

// CreateLogbook handles POST /api/logbooks
func (h *Handlers) CreateLogbook(c *gin.Context) {
	var req CreateLogbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "week_number and from_date are required")
		return
	}
	from, err := parseDate(req.FromDate)
	if err != nil {
		fail(c, http.StatusBadRequest, "from_date must be YYYY-MM-DD")
		return
	}

	lb, err := h.services.Logbook.Create(c.Request.Context(), currentUser(c), service.CreateLogbookRequest{
		WeekNumber:   req.WeekNumber,
		FromDate:     from,
		WeekActivity: req.WeekActivity,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, lb)
}

// GetLogbook handles GET /api/logbooks/:id
func (h *Handlers) GetLogbook(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	detail, err := h.services.Logbook.Detail(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, detail)
}

// DeleteLogbook handles DELETE /api/logbooks/:id
func (h *Handlers) DeleteLogbook(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	if err := h.services.Logbook.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

// CreateEntry handles POST /api/logbooks/:id/entries
func (h *Handlers) CreateEntry(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	req, valid := h.bindEntry(c)
	if !valid {
		return
	}
	entry, err := h.services.Entry.Create(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, entry)
}

// CreateBatchEntries handles POST /api/logbooks/:id/entries/batch
func (h *Handlers) CreateBatchEntries(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	entries, err := h.services.Entry.CreateBatch(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, entries)
}

// UpdateEntry handles PUT /api/logbooks/:id/entries/:entryId
func (h *Handlers) UpdateEntry(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	entryID, valid := h.paramID(c, "entryId")
	if !valid {
		return
	}
	req, valid := h.bindEntry(c)
	if !valid {
		return
	}
	entry, err := h.services.Entry.Update(c.Request.Context(), currentUser(c), id, entryID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, entry)
}

func (h *Handlers) bindEntry(c *gin.Context) (service.EntryRequest, bool) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return service.EntryRequest{}, false
	}
	date, err := parseDate(req.Date)
	if err != nil {
		fail(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return service.EntryRequest{}, false
	}
	return service.EntryRequest{Date: date, Activity: req.Activity}, true
}

// ListOperations handles GET /api/logbooks/:id/operations
func (h *Handlers) ListOperations(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	ops, err := h.services.Operation.List(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, ops)
}

// CreateOperation handles POST /api/logbooks/:id/operations
func (h *Handlers) CreateOperation(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	var req service.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	op, err := h.services.Operation.Create(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, op)
}

// UpdateOperation handles PUT /api/logbooks/:id/operations/:operationId
func (h *Handlers) UpdateOperation(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	opID, valid := h.paramID(c, "operationId")
	if !valid {
		return
	}
	var req service.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	op, err := h.services.Operation.Update(c.Request.Context(), currentUser(c), id, opID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, op)
}

// DeleteOperation handles DELETE /api/logbooks/:id/operations/:operationId
func (h *Handlers) DeleteOperation(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	opID, valid := h.paramID(c, "operationId")
	if !valid {
		return
	}
	if err := h.services.Operation.Delete(c.Request.Context(), currentUser(c), id, opID); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

// UpdateDiagram handles PUT /api/logbooks/:id/diagram
func (h *Handlers) UpdateDiagram(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	header, err := c.FormFile("diagram")
	if err != nil {
		fail(c, http.StatusBadRequest, "multipart field \"diagram\" is required")
		return
	}
	if header.Size > h.config.MaxUploadBytes {
		fail(c, http.StatusRequestEntityTooLarge, "diagram is too large")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, h.config.MaxUploadBytes))
	if err != nil {
		h.writeError(c, err)
		return
	}

	lb, err := h.services.Logbook.UpdateDiagram(c.Request.Context(), currentUser(c), id, content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, lb)
}

// SummarizeWeek handles POST /api/logbooks/:id/summary
func (h *Handlers) SummarizeWeek(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}
	lb, err := h.services.Logbook.Summarize(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, lb)
}

// DownloadDocument handles GET /api/logbooks/:id/document
func (h *Handlers) DownloadDocument(c *gin.Context) {
	id, valid := h.paramID(c, "id")
	if !valid {
		return
	}

	file, err := h.services.Document.Generate(c.Request.Context(), currentUser(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrProfileRequired) {
			h.writeError(c, err)
			return
		}
		h.logger.Error("Document generation failed", "logbook_id", id, "error", err)
		fail(c, http.StatusInternalServerError, "document generation failed")
		return
	}

	c.Header("Content-Type", file.ContentType)
	c.FileAttachment(file.Path, file.FileName)
}

// WeekEntries handles GET /api/weeks/:week/entries
func (h *Handlers) WeekEntries(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil || week <= 0 {
		fail(c, http.StatusBadRequest, "invalid week")
		return
	}
	days, err := h.services.Logbook.WeekEntries(c.Request.Context(), currentUser(c), week)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, days)
}
