package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/middleware"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/service"
)

type PerpetratorHandler struct {
	perpService *service.PerpetratorService
}

func NewPerpetratorHandler(perpService *service.PerpetratorService) *PerpetratorHandler {
	return &PerpetratorHandler{perpService: perpService}
}

// POST /perpetrators
func (h *PerpetratorHandler) Create(c *gin.Context) {
	var req struct {
		FirstName        string `json:"first_name" binding:"required"`
		LastName         string `json:"last_name"`
		Gender           string `json:"gender"`
		DateOfBirth      string `json:"date_of_birth"`
		Relationship     string `json:"relationship"`
		FanNumber        string `json:"fan_number"`
		FinNumber        string `json:"fin_number"`
		Address          string `json:"address"`
		PreviousOffences bool   `json:"previous_offences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	perp, err := h.perpService.Create(service.PerpetratorInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Gender:           req.Gender,
		DateOfBirth:      parseDate(req.DateOfBirth),
		Relationship:     req.Relationship,
		FanNumber:        req.FanNumber,
		FinNumber:        req.FinNumber,
		Address:          req.Address,
		PreviousOffences: req.PreviousOffences,
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, perp)
}

// GET /perpetrators/search
func (h *PerpetratorHandler) Search(c *gin.Context) {
	page, pageSize := parsePage(c)

	perps, total, err := h.perpService.Search(
		c.Query("name"),
		c.Query("fan"),
		c.Query("fin"),
		c.Query("relationship"),
		page, pageSize,
	)
	if err != nil {
		ServiceError(c, err)
		return
	}
	SuccessPaged(c, perps, total, page, pageSize)
}

// GET /perpetrators/:id
func (h *PerpetratorHandler) GetDetail(c *gin.Context) {
	perp, err := h.perpService.GetByID(parseID(c.Param("id")))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, perp)
}

// PUT /perpetrators/:id
func (h *PerpetratorHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		FirstName        *string `json:"first_name"`
		LastName         *string `json:"last_name"`
		Gender           *string `json:"gender"`
		DateOfBirth      *string `json:"date_of_birth"`
		Relationship     *string `json:"relationship"`
		FanNumber        *string `json:"fan_number"`
		FinNumber        *string `json:"fin_number"`
		Address          *string `json:"address"`
		PreviousOffences *bool   `json:"previous_offences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	updates := map[string]interface{}{}
	setField := func(key string, v *string) {
		if v != nil {
			updates[key] = *v
		}
	}
	setField("first_name", req.FirstName)
	setField("last_name", req.LastName)
	setField("gender", req.Gender)
	setField("relationship", req.Relationship)
	setField("fan_number", req.FanNumber)
	setField("fin_number", req.FinNumber)
	setField("address", req.Address)
	if req.DateOfBirth != nil {
		updates["date_of_birth"] = parseDate(*req.DateOfBirth)
	}
	if req.PreviousOffences != nil {
		updates["previous_offences"] = *req.PreviousOffences
	}
	if len(updates) == 0 {
		BadRequest(c, "no fields to update")
		return
	}

	perp, err := h.perpService.Update(id, updates)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, perp)
}

// POST /cases/:id/perpetrators/:perp_id
func (h *PerpetratorHandler) LinkToCase(c *gin.Context) {
	caseID := parseID(c.Param("id"))
	perpID := parseID(c.Param("perp_id"))

	if err := h.perpService.LinkToCase(caseID, perpID, middleware.GetCurrentUserID(c)); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"case_id": caseID, "perpetrator_id": perpID, "linked": true})
}

// DELETE /cases/:id/perpetrators/:perp_id
func (h *PerpetratorHandler) UnlinkFromCase(c *gin.Context) {
	caseID := parseID(c.Param("id"))
	perpID := parseID(c.Param("perp_id"))

	if err := h.perpService.UnlinkFromCase(caseID, perpID, middleware.GetCurrentUserID(c)); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"case_id": caseID, "perpetrator_id": perpID, "linked": false})
}
