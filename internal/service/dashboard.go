package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
)

type CountByKey struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type RecentCase struct {
	ID           uint      `json:"id"`
	CaseNumber   string    `json:"case_number"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
	ReporterName string    `json:"reporter_name"`
	AssigneeName string    `json:"assignee_name"`
}

type FocalPersonLoad struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Count  int64  `json:"count"`
}

type DashboardStats struct {
	TotalCases         int64 `json:"total_cases"`
	ReportedCases      int64 `json:"reported_cases"`
	AssignedCases      int64 `json:"assigned_cases"`
	InvestigatingCases int64 `json:"investigating_cases"`
	ResolvedCases      int64 `json:"resolved_cases"`
	ClosedCases        int64 `json:"closed_cases"`
	OpenCases          int64 `json:"open_cases"`

	TotalVictims      int64 `json:"total_victims"`
	TotalPerpetrators int64 `json:"total_perpetrators"`

	CasesByAbuseType []CountByKey `json:"cases_by_abuse_type"`
	CasesBySeverity  []CountByKey `json:"cases_by_severity"`

	RecentCases      []RecentCase      `json:"recent_cases"`
	FocalPersonLoads []FocalPersonLoad `json:"focal_person_loads"`

	CurrentMonthCases  int64 `json:"current_month_cases"`
	PreviousMonthCases int64 `json:"previous_month_cases"`
	// MonthlyDeltaPct is defined as 0 when the previous month had no cases;
	// callers must not read growth-rate meaning into a zero baseline.
	MonthlyDeltaPct float64 `json:"monthly_delta_pct"`
	TodayCases      int64   `json:"today_cases"`
}

type YearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

type MonthCount struct {
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Count     int64  `json:"count"`
}

const statsCacheKey = "dashboard:stats"

type DashboardService struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
	now      func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

// SetCache enables the Redis stats cache. A nil client or zero TTL keeps
// caching off.
func (s *DashboardService) SetCache(rdb *redis.Client, ttl time.Duration) {
	s.rdb = rdb
	s.cacheTTL = ttl
}

func (s *DashboardService) liveCases() *gorm.DB {
	return s.db.Model(&model.Case{}).Where("deleted_at IS NULL")
}

func (s *DashboardService) countStatus(status string) (int64, error) {
	var count int64
	err := s.liveCases().Where("status = ?", status).Count(&count).Error
	return count, err
}

func (s *DashboardService) Stats() (*DashboardStats, error) {
	if cached := s.cachedStats(); cached != nil {
		return cached, nil
	}

	stats := &DashboardStats{}
	if err := s.liveCases().Count(&stats.TotalCases).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		status string
		dest   *int64
	}{
		{model.CaseStatusReported, &stats.ReportedCases},
		{model.CaseStatusAssigned, &stats.AssignedCases},
		{model.CaseStatusUnderInvestigation, &stats.InvestigatingCases},
		{model.CaseStatusResolved, &stats.ResolvedCases},
		{model.CaseStatusClosed, &stats.ClosedCases},
	}
	for _, sc := range statusCounts {
		count, err := s.countStatus(sc.status)
		if err != nil {
			return nil, err
		}
		*sc.dest = count
	}
	stats.OpenCases = stats.ReportedCases + stats.AssignedCases + stats.InvestigatingCases

	if err := s.db.Model(&model.Victim{}).Count(&stats.TotalVictims).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Perpetrator{}).Count(&stats.TotalPerpetrators).Error; err != nil {
		return nil, err
	}

	if err := s.liveCases().
		Select("abuse_type as `key`, count(*) as count").
		Group("abuse_type").Order("count desc").
		Scan(&stats.CasesByAbuseType).Error; err != nil {
		return nil, err
	}
	if err := s.liveCases().
		Select("severity as `key`, count(*) as count").
		Group("severity").Order("count desc").
		Scan(&stats.CasesBySeverity).Error; err != nil {
		return nil, err
	}

	var recent []model.Case
	if err := s.db.Where("deleted_at IS NULL").
		Preload("Reporter").Preload("Assignee").
		Order("created_at desc").Limit(5).
		Find(&recent).Error; err != nil {
		return nil, err
	}
	stats.RecentCases = make([]RecentCase, 0, len(recent))
	for _, kase := range recent {
		rc := RecentCase{
			ID:         kase.ID,
			CaseNumber: kase.CaseNumber,
			Title:      kase.Title,
			Status:     kase.Status,
			Priority:   kase.Priority,
			CreatedAt:  kase.CreatedAt,
		}
		if kase.Reporter != nil {
			rc.ReporterName = kase.Reporter.Name
		}
		if kase.Assignee != nil {
			rc.AssigneeName = kase.Assignee.Name
		}
		stats.RecentCases = append(stats.RecentCases, rc)
	}

	if err := s.db.Table("cases").
		Select("users.id as user_id, users.name as name, count(*) as count").
		Joins("JOIN users ON users.id = cases.assignee_id").
		Where("cases.deleted_at IS NULL AND users.role = ? AND users.is_active = ?", string(policy.RoleFocalPerson), true).
		Group("users.id, users.name").
		Order("count desc").
		Scan(&stats.FocalPersonLoads).Error; err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var err error
	if stats.CurrentMonthCases, err = s.countRange(monthStart, now); err != nil {
		return nil, err
	}
	if stats.PreviousMonthCases, err = s.countRange(prevMonthStart, monthStart); err != nil {
		return nil, err
	}
	if stats.TodayCases, err = s.countRange(dayStart, now); err != nil {
		return nil, err
	}
	stats.MonthlyDeltaPct = MonthlyDelta(stats.CurrentMonthCases, stats.PreviousMonthCases)

	s.storeStats(stats)
	return stats, nil
}

// MonthlyDelta is the month-over-month change in percent, one decimal place.
// A zero baseline yields 0 regardless of the current count (documented
// policy, see DashboardStats.MonthlyDeltaPct).
func MonthlyDelta(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	delta := (float64(current-previous) / float64(previous)) * 100
	return math.Round(delta*10) / 10
}

func (s *DashboardService) countRange(from, to time.Time) (int64, error) {
	var count int64
	err := s.liveCases().Where("created_at >= ? AND created_at <= ?", from, to).Count(&count).Error
	return count, err
}

// YearlyStats counts case creation per year from the first recorded case to
// the current year. Years without cases are omitted.
func (s *DashboardService) YearlyStats() ([]YearCount, error) {
	var first []time.Time
	if err := s.liveCases().Order("created_at asc").Limit(1).Pluck("created_at", &first).Error; err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return []YearCount{}, nil
	}

	now := s.now()
	out := []YearCount{}
	for year := first[0].Year(); year <= now.Year(); year++ {
		from := time.Date(year, 1, 1, 0, 0, 0, 0, now.Location())
		to := from.AddDate(1, 0, 0).Add(-time.Nanosecond)
		count, err := s.countRange(from, to)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			out = append(out, YearCount{Year: year, Count: count})
		}
	}
	return out, nil
}

// MonthlyStats counts case creation per month of one year, with month names
// for presentation. All twelve months are returned, zeros included.
func (s *DashboardService) MonthlyStats(year int) ([]MonthCount, error) {
	now := s.now()
	out := make([]MonthCount, 0, 12)
	for month := 1; month <= 12; month++ {
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
		to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
		count, err := s.countRange(from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, MonthCount{
			Month:     month,
			MonthName: time.Month(month).String(),
			Count:     count,
		})
	}
	return out, nil
}

func (s *DashboardService) AbuseTypeStats() ([]CountByKey, error) {
	var out []CountByKey
	err := s.liveCases().
		Select("abuse_type as `key`, count(*) as count").
		Group("abuse_type").Order("count desc").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FallbackStats is the static demo payload served when the dashboard is
// configured to fail open on query errors.
func FallbackStats() *DashboardStats {
	return &DashboardStats{
		TotalCases:         24,
		ReportedCases:      8,
		AssignedCases:      6,
		InvestigatingCases: 4,
		ResolvedCases:      4,
		ClosedCases:        2,
		OpenCases:          18,
		TotalVictims:       26,
		TotalPerpetrators:  19,
		CasesByAbuseType: []CountByKey{
			{Key: "neglect", Count: 9},
			{Key: "physical", Count: 7},
			{Key: "emotional", Count: 5},
			{Key: "sexual", Count: 3},
		},
		CasesBySeverity: []CountByKey{
			{Key: "medium", Count: 11},
			{Key: "high", Count: 7},
			{Key: "low", Count: 4},
			{Key: "critical", Count: 2},
		},
		RecentCases:        []RecentCase{},
		FocalPersonLoads:   []FocalPersonLoad{},
		CurrentMonthCases:  5,
		PreviousMonthCases: 4,
		MonthlyDeltaPct:    25.0,
		TodayCases:         1,
	}
}

func (s *DashboardService) cachedStats() *DashboardStats {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.rdb.Get(context.Background(), statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *DashboardService) storeStats(stats *DashboardStats) {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	// Cache is best effort; a Redis failure never fails the request.
	s.rdb.Set(context.Background(), statsCacheKey, raw, s.cacheTTL)
}
