package services

import (
	"sort"

	"github.com/haimult/pulse-survey-server/models"
	"github.com/haimult/pulse-survey-server/repository"
)

type CategoryAverage struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
}

type DistributionBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
}

type TimelinePoint struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type OverallStats struct {
	TotalResponses   int64   `json:"total_responses"`
	TotalRespondents int64   `json:"total_respondents"`
	AverageScore     float64 `json:"average_score"`
}

// StatsService computes read-only aggregates over stored responses.
// No mutation, no authentication; the HTTP layer gates the dashboard.
// A nil configID scopes nothing, i.e. aggregates span every survey.
type StatsService struct {
	responses repository.ResponseRepository
}

func NewStatsService(responses repository.ResponseRepository) *StatsService {
	return &StatsService{responses: responses}
}

// CategoryAverages sums scores and answer counts per question, then
// groups by category label. A category with no recorded answers
// averages to 0.
func (s *StatsService) CategoryAverages(configID *uint) ([]CategoryAverage, error) {
	questions, err := s.responses.QuestionsWithScores(configID)
	if err != nil {
		return nil, err
	}

	type acc struct {
		total int
		count int
	}
	byCategory := make(map[string]*acc)
	for _, q := range questions {
		a := byCategory[q.Category]
		if a == nil {
			a = &acc{}
			byCategory[q.Category] = a
		}
		for _, r := range q.Responses {
			a.total += r.Score
		}
		a.count += len(q.Responses)
	}

	result := make([]CategoryAverage, 0, len(byCategory))
	for category, a := range byCategory {
		avg := 0.0
		if a.count > 0 {
			avg = float64(a.total) / float64(a.count)
		}
		result = append(result, CategoryAverage{Category: category, Average: avg})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

// ScoreDistribution buckets total scores into the fixed dashboard
// histogram. Totals outside [0,30] fall into no bucket and are
// silently excluded.
func (s *StatsService) ScoreDistribution(configID *uint) ([]DistributionBucket, error) {
	responses, err := s.responses.ListScores(configID)
	if err != nil {
		return nil, err
	}

	buckets := []DistributionBucket{
		{Label: "0-9", Min: 0, Max: 9},
		{Label: "10-14", Min: 10, Max: 14},
		{Label: "15-19", Min: 15, Max: 19},
		{Label: "20-24", Min: 20, Max: 24},
		{Label: "25-30", Min: 25, Max: 30},
	}
	for _, r := range responses {
		for i := range buckets {
			if r.TotalScore >= buckets[i].Min && r.TotalScore <= buckets[i].Max {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets, nil
}

// DailyTimeline groups responses by UTC calendar day and emits the
// per-day average and count, ascending by date.
func (s *StatsService) DailyTimeline(configID *uint) ([]TimelinePoint, error) {
	responses, err := s.responses.ListScores(configID)
	if err != nil {
		return nil, err
	}

	type acc struct {
		total int
		count int
	}
	byDay := make(map[string]*acc)
	for _, r := range responses {
		key := r.CompletedAt.UTC().Format("2006-01-02")
		a := byDay[key]
		if a == nil {
			a = &acc{}
			byDay[key] = a
		}
		a.total += r.TotalScore
		a.count++
	}

	series := make([]TimelinePoint, 0, len(byDay))
	for date, a := range byDay {
		series = append(series, TimelinePoint{
			Date:    date,
			Average: float64(a.total) / float64(a.count),
			Count:   a.count,
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}

// Overall returns totals and the mean total score, 0 when there are
// no responses.
func (s *StatsService) Overall(configID *uint) (*OverallStats, error) {
	responses, err := s.responses.ListScores(configID)
	if err != nil {
		return nil, err
	}
	respondents, err := s.responses.CountDistinctRespondents(configID)
	if err != nil {
		return nil, err
	}

	stats := &OverallStats{
		TotalResponses:   int64(len(responses)),
		TotalRespondents: respondents,
	}
	if len(responses) > 0 {
		total := 0
		for _, r := range responses {
			total += r.TotalScore
		}
		stats.AverageScore = float64(total) / float64(len(responses))
	}
	return stats, nil
}

// Recent returns the latest submissions with respondent and score
// entries preloaded, newest first.
func (s *StatsService) Recent(configID *uint, limit int) ([]models.SurveyResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.responses.ListRecent(configID, limit)
}
