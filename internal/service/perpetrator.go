package service

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
)

type PerpetratorService struct {
	db *gorm.DB
}

func NewPerpetratorService(db *gorm.DB) *PerpetratorService {
	return &PerpetratorService{db: db}
}

type PerpetratorInput struct {
	FirstName        string
	LastName         string
	Gender           string
	DateOfBirth      *time.Time
	Relationship     string
	FanNumber        string
	FinNumber        string
	Address          string
	PreviousOffences bool
}

func (s *PerpetratorService) Create(in PerpetratorInput) (*model.Perpetrator, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, fmt.Errorf("40001:first_name is required")
	}
	if in.Relationship != "" && !model.ValidRelationship(in.Relationship) {
		return nil, fmt.Errorf("40001:unknown relationship %q", in.Relationship)
	}

	perp := &model.Perpetrator{
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Gender:           in.Gender,
		DateOfBirth:      in.DateOfBirth,
		Relationship:     in.Relationship,
		FanNumber:        in.FanNumber,
		FinNumber:        in.FinNumber,
		Address:          in.Address,
		PreviousOffences: in.PreviousOffences,
	}
	if err := s.db.Create(perp).Error; err != nil {
		return nil, err
	}
	return perp, nil
}

func (s *PerpetratorService) GetByID(id uint) (*model.Perpetrator, error) {
	var perp model.Perpetrator
	if err := s.db.Preload("Cases", func(db *gorm.DB) *gorm.DB {
		return db.Where("cases.deleted_at IS NULL")
	}).First(&perp, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:perpetrator not found")
		}
		return nil, err
	}
	return &perp, nil
}

// Search matches name, FAN and FIN identifiers by substring, and
// relationship exactly.
func (s *PerpetratorService) Search(name, fan, fin, relationship string, page, pageSize int) ([]model.Perpetrator, int64, error) {
	if relationship != "" && !model.ValidRelationship(relationship) {
		return nil, 0, fmt.Errorf("40001:unknown relationship %q", relationship)
	}

	query := s.db.Model(&model.Perpetrator{})
	if name != "" {
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", "%"+name+"%", "%"+name+"%")
	}
	if fan != "" {
		query = query.Where("fan_number LIKE ?", "%"+fan+"%")
	}
	if fin != "" {
		query = query.Where("fin_number LIKE ?", "%"+fin+"%")
	}
	if relationship != "" {
		query = query.Where("relationship = ?", relationship)
	}

	var total int64
	query.Count(&total)

	var perps []model.Perpetrator
	if err := query.Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&perps).Error; err != nil {
		return nil, 0, err
	}
	return perps, total, nil
}

func (s *PerpetratorService) Update(id uint, updates map[string]interface{}) (*model.Perpetrator, error) {
	if v, ok := updates["relationship"]; ok {
		if rel, _ := v.(string); rel != "" && !model.ValidRelationship(rel) {
			return nil, fmt.Errorf("40001:unknown relationship %q", v)
		}
	}
	var perp model.Perpetrator
	if err := s.db.First(&perp, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:perpetrator not found")
		}
		return nil, err
	}
	if err := s.db.Model(&model.Perpetrator{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// LinkToCase attaches a perpetrator to a case through the join table.
// Linking twice is a no-op reported to the caller.
func (s *PerpetratorService) LinkToCase(caseID, perpID, actorID uint) error {
	var count int64
	s.db.Model(&model.Case{}).Where("id = ? AND deleted_at IS NULL", caseID).Count(&count)
	if count == 0 {
		return fmt.Errorf("40401:case not found")
	}
	if err := s.db.First(&model.Perpetrator{}, perpID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("40401:perpetrator not found")
		}
		return err
	}

	s.db.Model(&model.CasePerpetrator{}).
		Where("case_id = ? AND perpetrator_id = ?", caseID, perpID).Count(&count)
	if count > 0 {
		return fmt.Errorf("40001:perpetrator already linked to this case")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		link := &model.CasePerpetrator{CaseID: caseID, PerpetratorID: perpID}
		if err := tx.Create(link).Error; err != nil {
			return err
		}
		history := &model.CaseHistory{
			CaseID:      caseID,
			UserID:      actorID,
			Action:      model.HistoryUpdated,
			Description: "Perpetrator linked to case",
			Changes:     model.JSONMap{"perpetrator_id": perpID},
		}
		return tx.Create(history).Error
	})
}

func (s *PerpetratorService) UnlinkFromCase(caseID, perpID, actorID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("case_id = ? AND perpetrator_id = ?", caseID, perpID).
			Delete(&model.CasePerpetrator{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("40401:perpetrator is not linked to this case")
		}
		history := &model.CaseHistory{
			CaseID:      caseID,
			UserID:      actorID,
			Action:      model.HistoryUpdated,
			Description: "Perpetrator unlinked from case",
			Changes:     model.JSONMap{"perpetrator_id": perpID},
		}
		return tx.Create(history).Error
	})
}
