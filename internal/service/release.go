package service

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
)

// ReleasedNumber reports one renamed case number.
type ReleasedNumber struct {
	CaseID    uint   `json:"case_id"`
	OldNumber string `json:"old_number"`
	NewNumber string `json:"new_number"`
}

// ReleaseResult summarizes a release run.
type ReleaseResult struct {
	DryRun   bool             `json:"dry_run"`
	Scanned  int              `json:"scanned"`
	Released []ReleasedNumber `json:"released"`
	Skipped  int              `json:"skipped"`
}

type ReleaseService struct {
	db *gorm.DB
}

func NewReleaseService(db *gorm.DB) *ReleaseService {
	return &ReleaseService{db: db}
}

// ReleaseDeletedCaseNumbers renames the numbers of soft-deleted cases so the
// original values become available for new cases. The new number is
// <original>__deleted__<id>__<YYYYMMDDHHMMSS>; a number already carrying the
// marker is skipped, so re-running the operation never double-suffixes.
//
// Each rename is a conditional update (id + current number in the WHERE
// clause, RowsAffected checked) so two concurrent runs cannot both rename the
// same row; the loser simply counts the row as skipped.
func (s *ReleaseService) ReleaseDeletedCaseNumbers(dryRun bool) (*ReleaseResult, error) {
	var deleted []model.Case
	if err := s.db.Where("deleted_at IS NOT NULL").Order("id asc").Find(&deleted).Error; err != nil {
		return nil, err
	}

	result := &ReleaseResult{DryRun: dryRun, Scanned: len(deleted)}
	for _, kase := range deleted {
		if strings.Contains(kase.CaseNumber, model.ReleaseMarker) {
			result.Skipped++
			continue
		}

		// deleted_at should always be set for a soft-deleted row; when it is
		// missing the current time stands in, which makes the suffix
		// non-deterministic across runs for such rows.
		deletedAt := time.Now()
		if kase.DeletedAt != nil {
			deletedAt = *kase.DeletedAt
		}
		newNumber := fmt.Sprintf("%s%s%d__%s",
			kase.CaseNumber, model.ReleaseMarker, kase.ID, deletedAt.Format("20060102150405"))

		if dryRun {
			result.Released = append(result.Released, ReleasedNumber{
				CaseID:    kase.ID,
				OldNumber: kase.CaseNumber,
				NewNumber: newNumber,
			})
			continue
		}

		res := s.db.Model(&model.Case{}).
			Where("id = ? AND case_number = ?", kase.ID, kase.CaseNumber).
			Update("case_number", newNumber)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// Another run renamed the row between our read and this write.
			result.Skipped++
			continue
		}
		result.Released = append(result.Released, ReleasedNumber{
			CaseID:    kase.ID,
			OldNumber: kase.CaseNumber,
			NewNumber: newNumber,
		})
	}
	return result, nil
}
