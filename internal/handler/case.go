package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/middleware"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/service"
)

type CaseHandler struct {
	caseService *service.CaseService
}

func NewCaseHandler(caseService *service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// parseDate accepts YYYY-MM-DD or RFC3339.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

// POST /cases
func (h *CaseHandler) Create(c *gin.Context) {
	var req struct {
		Title          string        `json:"title" binding:"required"`
		Description    string        `json:"description"`
		AbuseType      string        `json:"abuse_type" binding:"required"`
		Priority       string        `json:"priority"`
		Severity       string        `json:"severity"`
		Location       string        `json:"location"`
		LocationType   string        `json:"location_type"`
		IncidentDate   string        `json:"incident_date"`
		AssigneeID     *uint         `json:"assignee_id"`
		Notes          string        `json:"notes"`
		AdditionalInfo model.JSONMap `json:"additional_info"`
		PriorReports   int           `json:"prior_reports"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	kase, err := h.caseService.Create(service.CreateCaseInput{
		Title:          req.Title,
		Description:    req.Description,
		AbuseType:      req.AbuseType,
		Priority:       req.Priority,
		Severity:       req.Severity,
		Location:       req.Location,
		LocationType:   req.LocationType,
		IncidentDate:   parseDate(req.IncidentDate),
		AssigneeID:     req.AssigneeID,
		Notes:          req.Notes,
		AdditionalInfo: req.AdditionalInfo,
		PriorReports:   req.PriorReports,
	}, middleware.GetCurrentUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, kase)
}

// GET /cases
func (h *CaseHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)

	filters := service.CaseListFilters{
		Status:    c.Query("status"),
		AbuseType: c.Query("abuse_type"),
		Keyword:   c.Query("keyword"),
		From:      parseDate(c.Query("from")),
		To:        parseDate(c.Query("to")),
	}
	if s := c.Query("assignee_id"); s != "" {
		id := parseID(s)
		filters.AssigneeID = &id
	}

	cases, total, err := h.caseService.List(filters, page, pageSize)
	if err != nil {
		ServiceError(c, err)
		return
	}
	SuccessPaged(c, cases, total, page, pageSize)
}

// GET /cases/:id
func (h *CaseHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))
	role := middleware.GetCurrentUserRole(c)

	// Soft-deleted cases stay hidden except for the admin recovery flow.
	includeTrashed := c.Query("include_trashed") == "true" && role == policy.RoleSystemAdmin

	kase, err := h.caseService.GetByID(id, includeTrashed, middleware.GetCurrentUserID(c), role)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, kase)
}

// PUT /cases/:id
func (h *CaseHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Title             *string        `json:"title"`
		Description       *string        `json:"description"`
		AbuseType         *string        `json:"abuse_type"`
		Priority          *string        `json:"priority"`
		Severity          *string        `json:"severity"`
		Status            *string        `json:"status"`
		Location          *string        `json:"location"`
		LocationType      *string        `json:"location_type"`
		IncidentDate      *string        `json:"incident_date"`
		FollowUpDate      *string        `json:"follow_up_date"`
		ResolutionDetails *string        `json:"resolution_details"`
		Notes             *string        `json:"notes"`
		AdditionalInfo    *model.JSONMap `json:"additional_info"`
		AssigneeID        *uint          `json:"assignee_id"`
		AssigneeSet       bool           `json:"assignee_set"`
		PriorReports      *int           `json:"prior_reports"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	updates := map[string]interface{}{}
	setString := func(key string, v *string) {
		if v != nil {
			updates[key] = *v
		}
	}
	setString("title", req.Title)
	setString("description", req.Description)
	setString("abuse_type", req.AbuseType)
	setString("priority", req.Priority)
	setString("severity", req.Severity)
	setString("status", req.Status)
	setString("location", req.Location)
	setString("location_type", req.LocationType)
	setString("resolution_details", req.ResolutionDetails)
	setString("notes", req.Notes)
	if req.IncidentDate != nil {
		updates["incident_date"] = parseDate(*req.IncidentDate)
	}
	if req.FollowUpDate != nil {
		updates["follow_up_date"] = parseDate(*req.FollowUpDate)
	}
	if req.AdditionalInfo != nil {
		updates["additional_info"] = *req.AdditionalInfo
	}
	if req.AssigneeID != nil || req.AssigneeSet {
		updates["assignee_id"] = req.AssigneeID
	}
	if req.PriorReports != nil {
		updates["prior_reports"] = *req.PriorReports
	}
	if req.Status != nil && *req.Status == model.CaseStatusResolved {
		now := time.Now()
		updates["resolved_at"] = &now
	}
	if len(updates) == 0 {
		BadRequest(c, "no fields to update")
		return
	}

	kase, err := h.caseService.Update(id, updates, middleware.GetCurrentUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, kase)
}

// DELETE /cases/:id
func (h *CaseHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	if err := h.caseService.SoftDelete(id, middleware.GetCurrentUserID(c)); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"id": id, "deleted": true})
}

// POST /cases/:id/notes
func (h *CaseHandler) AddNote(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Content   string `json:"content" binding:"required"`
		NoteType  string `json:"note_type"`
		IsPrivate bool   `json:"is_private"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	note, err := h.caseService.AddNote(id, middleware.GetCurrentUserID(c), req.Content, req.NoteType, req.IsPrivate)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, note)
}

// GET /cases/:id/history
func (h *CaseHandler) ListHistory(c *gin.Context) {
	id := parseID(c.Param("id"))
	page, pageSize := parsePage(c)

	entries, total, err := h.caseService.ListHistory(id, page, pageSize)
	if err != nil {
		ServiceError(c, err)
		return
	}
	SuccessPaged(c, entries, total, page, pageSize)
}

// POST /cases/:id/evidence
func (h *CaseHandler) AddEvidence(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	kase, err := h.caseService.AddEvidence(id, req.Name, middleware.GetCurrentUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"id": kase.ID, "evidence_files": kase.EvidenceFiles})
}
