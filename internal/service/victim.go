package service

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/pkg/encrypt"
)

type VictimService struct {
	db     *gorm.DB
	aesKey string
}

func NewVictimService(db *gorm.DB, aesKey string) *VictimService {
	return &VictimService{db: db, aesKey: aesKey}
}

type VictimInput struct {
	CaseID         *uint
	FirstName      string
	LastName       string
	Gender         string
	DateOfBirth    *time.Time
	GuardianName   string
	GuardianPhone  string
	Address        string
	AddressHistory model.JSONMap
	School         string
}

func (s *VictimService) Create(in VictimInput) (*model.Victim, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, fmt.Errorf("40001:first_name is required")
	}
	if in.CaseID != nil {
		var count int64
		s.db.Model(&model.Case{}).Where("id = ? AND deleted_at IS NULL", *in.CaseID).Count(&count)
		if count == 0 {
			return nil, fmt.Errorf("40401:case not found")
		}
	}

	phone, err := s.sealPhone(in.GuardianPhone)
	if err != nil {
		return nil, err
	}
	victim := &model.Victim{
		CaseID:         in.CaseID,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Gender:         in.Gender,
		DateOfBirth:    in.DateOfBirth,
		GuardianName:   in.GuardianName,
		GuardianPhone:  phone,
		Address:        in.Address,
		AddressHistory: in.AddressHistory,
		School:         in.School,
	}
	if err := s.db.Create(victim).Error; err != nil {
		return nil, err
	}
	s.openPhone(victim)
	return victim, nil
}

func (s *VictimService) GetByID(id uint) (*model.Victim, error) {
	var victim model.Victim
	if err := s.db.First(&victim, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:victim not found")
		}
		return nil, err
	}
	s.openPhone(&victim)
	return &victim, nil
}

func (s *VictimService) List(caseID *uint, keyword string, page, pageSize int) ([]model.Victim, int64, error) {
	query := s.db.Model(&model.Victim{})
	if caseID != nil {
		query = query.Where("case_id = ?", *caseID)
	}
	if keyword != "" {
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	var total int64
	query.Count(&total)

	var victims []model.Victim
	if err := query.Order("created_at asc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&victims).Error; err != nil {
		return nil, 0, err
	}
	for i := range victims {
		s.openPhone(&victims[i])
	}
	return victims, total, nil
}

func (s *VictimService) Update(id uint, updates map[string]interface{}) (*model.Victim, error) {
	var victim model.Victim
	if err := s.db.First(&victim, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:victim not found")
		}
		return nil, err
	}
	if v, ok := updates["guardian_phone"]; ok {
		phone, _ := v.(string)
		sealed, err := s.sealPhone(phone)
		if err != nil {
			return nil, err
		}
		updates["guardian_phone"] = sealed
	}
	if v, ok := updates["case_id"]; ok {
		if caseID, _ := v.(*uint); caseID != nil {
			var count int64
			s.db.Model(&model.Case{}).Where("id = ? AND deleted_at IS NULL", *caseID).Count(&count)
			if count == 0 {
				return nil, fmt.Errorf("40401:case not found")
			}
		}
	}
	if err := s.db.Model(&model.Victim{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *VictimService) Delete(id uint) error {
	result := s.db.Delete(&model.Victim{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("40401:victim not found")
	}
	return nil
}

// sealPhone encrypts the guardian contact at rest. With no key configured
// the value is stored as-is.
func (s *VictimService) sealPhone(phone string) (string, error) {
	if phone == "" || s.aesKey == "" {
		return phone, nil
	}
	sealed, err := encrypt.AESEncrypt(s.aesKey, phone)
	if err != nil {
		return "", fmt.Errorf("encrypt guardian phone: %w", err)
	}
	return sealed, nil
}

func (s *VictimService) openPhone(v *model.Victim) {
	if v.GuardianPhone == "" || s.aesKey == "" {
		return
	}
	plain, err := encrypt.AESDecrypt(s.aesKey, v.GuardianPhone)
	if err != nil {
		// Rows written before encryption was enabled stay readable.
		return
	}
	v.GuardianPhone = plain
}
