package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/mrlokans/biblioteka/internal/entities"
)

const auditPageSize = 25

type AuditController struct {
	reader AuditReader
	pages  *pageRenderer
}

func NewAuditController(reader AuditReader, pages *pageRenderer) *AuditController {
	return &AuditController{
		reader: reader,
		pages:  pages,
	}
}

// AuditLogPage renders the audit log UI
// GET /audit
func (ac *AuditController) AuditLogPage(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	eventType := c.Query("type")
	offset := (page - 1) * auditPageSize

	events, total, err := ac.reader.GetEvents(c.Request.Context(), entities.AuditEventType(eventType), auditPageSize, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load audit events")
		ac.pages.renderError(c, http.StatusInternalServerError, "Failed to load audit events")
		return
	}

	totalPages := (int(total) + auditPageSize - 1) / auditPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	ac.pages.render(c, http.StatusOK, "audit", gin.H{
		"Title":       "Audit log",
		"Events":      events,
		"CurrentPage": page,
		"PrevPage":    page - 1,
		"NextPage":    page + 1,
		"TotalPages":  totalPages,
		"TotalEvents": total,
		"EventType":   eventType,
		"EventTypes":  eventTypeOptions(),
	})
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?type=&limit=&offset=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit := queryInt(c, "limit", auditPageSize)
	if limit < 1 || limit > 100 {
		limit = auditPageSize
	}
	offset := queryInt(c, "offset", 0)

	events, total, err := ac.reader.GetEvents(c.Request.Context(), entities.AuditEventType(c.Query("type")), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}

type EventTypeOption struct {
	Value string
	Label string
}

// eventTypeOptions feeds the filter select; the empty value matches all.
func eventTypeOptions() []EventTypeOption {
	types := append([]entities.AuditEventType{""}, entities.AuditEventTypes...)
	return lo.Map(types, func(t entities.AuditEventType, _ int) EventTypeOption {
		return EventTypeOption{Value: string(t), Label: t.Label()}
	})
}
