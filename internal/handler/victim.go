package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/service"
)

type VictimHandler struct {
	victimService *service.VictimService
}

func NewVictimHandler(victimService *service.VictimService) *VictimHandler {
	return &VictimHandler{victimService: victimService}
}

// POST /victims
func (h *VictimHandler) Create(c *gin.Context) {
	var req struct {
		CaseID         *uint         `json:"case_id"`
		FirstName      string        `json:"first_name" binding:"required"`
		LastName       string        `json:"last_name"`
		Gender         string        `json:"gender"`
		DateOfBirth    string        `json:"date_of_birth"`
		GuardianName   string        `json:"guardian_name"`
		GuardianPhone  string        `json:"guardian_phone"`
		Address        string        `json:"address"`
		AddressHistory model.JSONMap `json:"address_history"`
		School         string        `json:"school"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	victim, err := h.victimService.Create(service.VictimInput{
		CaseID:         req.CaseID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Gender:         req.Gender,
		DateOfBirth:    parseDate(req.DateOfBirth),
		GuardianName:   req.GuardianName,
		GuardianPhone:  req.GuardianPhone,
		Address:        req.Address,
		AddressHistory: req.AddressHistory,
		School:         req.School,
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, victim)
}

// GET /victims
func (h *VictimHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)

	var caseID *uint
	if s := c.Query("case_id"); s != "" {
		id := parseID(s)
		caseID = &id
	}

	victims, total, err := h.victimService.List(caseID, c.Query("keyword"), page, pageSize)
	if err != nil {
		ServiceError(c, err)
		return
	}
	SuccessPaged(c, victims, total, page, pageSize)
}

// GET /victims/:id
func (h *VictimHandler) GetDetail(c *gin.Context) {
	victim, err := h.victimService.GetByID(parseID(c.Param("id")))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, victim)
}

// PUT /victims/:id
func (h *VictimHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		CaseID         *uint          `json:"case_id"`
		FirstName      *string        `json:"first_name"`
		LastName       *string        `json:"last_name"`
		Gender         *string        `json:"gender"`
		DateOfBirth    *string        `json:"date_of_birth"`
		GuardianName   *string        `json:"guardian_name"`
		GuardianPhone  *string        `json:"guardian_phone"`
		Address        *string        `json:"address"`
		AddressHistory *model.JSONMap `json:"address_history"`
		School         *string        `json:"school"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.CaseID != nil {
		updates["case_id"] = req.CaseID
	}
	setField := func(key string, v *string) {
		if v != nil {
			updates[key] = *v
		}
	}
	setField("first_name", req.FirstName)
	setField("last_name", req.LastName)
	setField("gender", req.Gender)
	setField("guardian_name", req.GuardianName)
	setField("guardian_phone", req.GuardianPhone)
	setField("address", req.Address)
	setField("school", req.School)
	if req.DateOfBirth != nil {
		updates["date_of_birth"] = parseDate(*req.DateOfBirth)
	}
	if req.AddressHistory != nil {
		updates["address_history"] = *req.AddressHistory
	}
	if len(updates) == 0 {
		BadRequest(c, "no fields to update")
		return
	}

	victim, err := h.victimService.Update(id, updates)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, victim)
}

// DELETE /victims/:id
func (h *VictimHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	if err := h.victimService.Delete(id); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"id": id, "deleted": true})
}
