// Package stats builds the admin dashboard summary.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Days is the length of the daily creation series.
const Days = 30

const cacheKey = "admin:stats:v1"

const dayLayout = "2006-01-02"

// Source provides the raw counts.
type Source interface {
	CountUsers(ctx context.Context) (int64, error)
	CountResumes(ctx context.Context) (int64, error)
	CountResumesByDay(ctx context.Context, since time.Time) ([]types.DailyCount, error)
}

// Cache stores the computed summary between requests.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	source Source
	cache  Cache
	ttl    time.Duration
	now    func() time.Time
}

// NewService returns a Service. cache may be nil; a zero ttl disables caching.
func NewService(source Source, cache Cache, ttl time.Duration) *Service {
	return &Service{source: source, cache: cache, ttl: ttl, now: time.Now}
}

// Get returns the totals and the creation counts of the last Days UTC days,
// ending today. Cache errors are logged and the counts are recomputed.
func (s *Service) Get(ctx context.Context) (*types.AdminStats, error) {
	if s.cacheEnabled() {
		var cached types.AdminStats
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("stats cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	out, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.cache.SetJSON(ctx, cacheKey, out, s.ttl); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return out, nil
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *Service) compute(ctx context.Context) (*types.AdminStats, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(Days - 1))

	var (
		users, resumes int64
		daily          []types.DailyCount
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.source.CountUsers(gCtx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		users = n
		return nil
	})
	g.Go(func() error {
		n, err := s.source.CountResumes(gCtx)
		if err != nil {
			return fmt.Errorf("count resumes: %w", err)
		}
		resumes = n
		return nil
	})
	g.Go(func() error {
		counts, err := s.source.CountResumesByDay(gCtx, since)
		if err != nil {
			return fmt.Errorf("count resumes by day: %w", err)
		}
		daily = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.AdminStats{
		TotalUsers:   users,
		TotalResumes: resumes,
		ResumesByDay: FillDays(daily, today, Days),
	}, nil
}

// FillDays returns n consecutive UTC days ending on end's day, oldest first.
// Days absent from counts get a zero count.
func FillDays(counts []types.DailyCount, end time.Time, n int) []types.DailyCount {
	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[c.Date] += c.Count
	}

	end = end.UTC()
	out := make([]types.DailyCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i).Format(dayLayout)
		out = append(out, types.DailyCount{Date: day, Count: byDay[day]})
	}
	return out
}
