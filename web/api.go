// ABOUTME: JSON API handlers for the board, dashboard, leads, tasks, and activity feed
// ABOUTME: Thin gin adapters over crm.Service with domain errors mapped to status codes
package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/shopspring/decimal"
)

type boardResponse struct {
	Columns       []pipeline.Column `json:"columns"`
	PipelineValue decimal.Decimal   `json:"pipeline_value"`
}

type moveStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

type tasksResponse struct {
	Tasks []models.Task       `json:"tasks"`
	Stats analytics.TaskStats `json:"stats"`
}

type activitiesResponse struct {
	Activities []models.Activity       `json:"activities"`
	Stats      analytics.ActivityStats `json:"stats"`
}

func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Field: "id", Value: raw, Reason: "must be a positive integer"}
	}
	return id, nil
}

func (h *httpHandler) handleBoard(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	columns, err := pipeline.Summarize(snap.Deals)
	if err != nil {
		h.writeError(c, err)
		return
	}
	value, err := pipeline.PipelineValue(snap.Deals)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, boardResponse{Columns: columns, PipelineValue: value})
}

func (h *httpHandler) handleMoveDeal(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var request moveStageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "stage is required"})
		return
	}

	deal, err := h.svc.MoveDeal(c.Request.Context(), id, models.Stage(request.Stage))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.cache.Invalidate()
	c.JSON(http.StatusOK, deal)
}

func (h *httpHandler) dashboard(c *gin.Context) (analytics.Dashboard, error) {
	window := h.window
	if raw := c.Query("range"); raw != "" {
		w, err := analytics.ParseWindow(raw)
		if err != nil {
			return analytics.Dashboard{}, err
		}
		window = w
	}
	if d, ok := h.cache.Latest(window); ok {
		return d, nil
	}
	return h.svc.Dashboard(c.Request.Context(), window)
}

func (h *httpHandler) handleDashboard(c *gin.Context) {
	d, err := h.dashboard(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *httpHandler) handleLeads(c *gin.Context) {
	leads, err := h.svc.Leads(c.Request.Context(), c.Query("q"), c.Query("status"), c.Query("source"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

func (h *httpHandler) handleConvertLead(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	contact, err := h.svc.ConvertLead(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.cache.Invalidate()
	c.JSON(http.StatusOK, contact)
}

func (h *httpHandler) handleTasks(c *gin.Context) {
	tasks, err := h.svc.Tasks(c.Request.Context(), c.Query("q"), c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	stats, err := analytics.SummarizeTasks(tasks, h.svc.Now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasksResponse{Tasks: tasks, Stats: stats})
}

func (h *httpHandler) handleToggleTask(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	task, err := h.svc.ToggleTask(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.cache.Invalidate()
	c.JSON(http.StatusOK, task)
}

func (h *httpHandler) handleActivities(c *gin.Context) {
	activities, err := h.svc.Activities(c.Request.Context(), c.Query("q"), c.Query("type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	stats, err := analytics.SummarizeActivities(activities, h.svc.Now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, activitiesResponse{Activities: activities, Stats: stats})
}
