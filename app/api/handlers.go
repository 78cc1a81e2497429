package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okhotnik/eventscope/app/database"
	"github.com/okhotnik/eventscope/app/importer"
	"github.com/okhotnik/eventscope/app/sources"
)

const defaultListLimit = 50

func NewHandler(imp *importer.Importer, eventRepo database.EventRepository) *Handler {
	return &Handler{
		importer:  imp,
		eventRepo: eventRepo,
	}
}

func (h *Handler) ScrapeImport(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid url"})
		return
	}

	if !isWellFormedURL(req.URL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is not well-formed"})
		return
	}

	draft, err := h.importer.Scrape(c.Request.Context(), req.URL)
	if err != nil {
		var fetchErr *importer.FetchError
		if errors.As(err, &fetchErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fetchErr.Error()})
			return
		}
		slog.Error("Scrape import failed", "url", req.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

func (h *Handler) TextImport(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid text"})
		return
	}

	draft := h.importer.ParseText(req.Text, req.Source)

	c.JSON(http.StatusOK, draft)
}

func (h *Handler) FeedImport(c *gin.Context) {
	var req feedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid url"})
		return
	}

	if !isWellFormedURL(req.URL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is not well-formed"})
		return
	}

	drafts, err := h.importer.ImportFeed(c.Request.Context(), req.URL)
	if err != nil {
		var fetchErr *importer.FetchError
		if errors.As(err, &fetchErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fetchErr.Error()})
			return
		}
		slog.Error("Feed import failed", "url", req.URL, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drafts": drafts,
		"total":  len(drafts),
	})
}

func (h *Handler) CommitImport(c *gin.Context) {
	var draft importer.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draft payload"})
		return
	}

	if draft.SourceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Draft is missing a source URL"})
		return
	}

	// The draft round-trips through the client; a source value outside the
	// storage enum would otherwise only fail at the CHECK constraint.
	draft.Source = sources.StorableSource(draft.Source)

	id, err := h.importer.Commit(&draft)
	if err != nil {
		var dupErr *importer.DuplicateError
		if errors.As(err, &dupErr) {
			c.JSON(http.StatusConflict, gin.H{
				"error":       "Event already imported",
				"existing_id": dupErr.ExistingID,
			})
			return
		}
		slog.Error("Commit failed", "source_url", draft.SourceURL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) ListEvents(c *gin.Context) {
	status := c.Query("status")

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	events, err := h.eventRepo.ListEvents(status, limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]eventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, newEventResponse(event))
	}

	c.JSON(http.StatusOK, gin.H{
		"events": responses,
		"total":  len(responses),
	})
}

func (h *Handler) GetEvent(c *gin.Context) {
	id := c.Param("id")

	event, err := h.eventRepo.GetEvent(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_event", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, newEventResponse(*event))
}

// UpdateEventStatus promotes a committed event through moderation. The import
// pipeline itself only ever writes drafts.
func (h *Handler) UpdateEventStatus(c *gin.Context) {
	id := c.Param("id")

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid status"})
		return
	}

	switch importer.Status(req.Status) {
	case importer.StatusPending, importer.StatusApproved, importer.StatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of: pending, approved, rejected"})
		return
	}

	if err := h.eventRepo.UpdateEventStatus(id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		slog.Error("Database error", "operation", "update_status", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if eventCount, err := h.eventRepo.GetEventCount(); err == nil {
		health["events"] = eventCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.eventRepo.GetEventStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total := 0
	for _, count := range stats {
		total += count
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"by_status": stats,
	})
}

func isWellFormedURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
