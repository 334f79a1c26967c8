package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

type stubTimetableSource struct {
	records []models.TimetableRecord
	err     error
}

func (s *stubTimetableSource) Load(ctx context.Context) ([]models.TimetableRecord, error) {
	return s.records, s.err
}

type memoryAssignments struct {
	mu       sync.Mutex
	roster   models.Roster
	listErr  error
	saveErr  error
	replaced int
}

func newMemoryAssignments(roster models.Roster) *memoryAssignments {
	if roster == nil {
		roster = models.Roster{}
	}
	return &memoryAssignments{roster: roster}
}

func (m *memoryAssignments) ListByTeacher(ctx context.Context, teacher string) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Assignment(nil), m.roster[teacher]...), nil
}

func (m *memoryAssignments) ListTeachers(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]string, 0, len(m.roster))
	for name := range m.roster {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryAssignments) Replace(ctx context.Context, teacher string, assignments []models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.replaced++
	if len(assignments) == 0 {
		delete(m.roster, teacher)
		return nil
	}
	m.roster[teacher] = append([]models.Assignment(nil), assignments...)
	return nil
}

type memoryCache struct {
	mu     sync.Mutex
	items  map[string][]byte
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = payload
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

func (c *memoryCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.items))
	for key := range c.items {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func rec(day, class, subject, start, end string) models.TimetableRecord {
	return models.TimetableRecord{Day: day, Class: class, Subject: subject, StartTime: start, EndTime: end}
}

func sampleRecords() []models.TimetableRecord {
	return []models.TimetableRecord{
		rec("MONDAY", "FORM 1", "MATH", "8:00", "8:40"),
		rec("MONDAY", "FORM 2", "ENG/ELT", "8:00", "8:40"),
		rec("MONDAY", "FORM 1", "ENG/ELT", "8:40", "9:20"),
		rec("MONDAY", "FORM 2", "MATH", "8:40", "9:20"),
		rec("MONDAY", "FORM 1", "CHEM", "9:20", "10:00"),
		rec("MONDAY", "FORM 1", "BREAK", "10:00", "10:20"),
		rec("MONDAY", "FORM 3", "PHY", "2:00", "2:40"),
		rec("TUESDAY", "FORM 1", "MATH", "8:00", "8:40"),
	}
}

// mondayAt is a clock fixed on Monday 4 March 2024.
func mondayAt(hour, minute int) timetable.Clock {
	at := time.Date(2024, 3, 4, hour, minute, 0, 0, time.UTC)
	return timetable.ClockFunc(func() time.Time { return at })
}

type timetableFixture struct {
	svc         *TimetableService
	assignments *memoryAssignments
	cache       *memoryCache
}

func newTimetableFixture(t *testing.T, records []models.TimetableRecord, roster models.Roster, clock timetable.Clock) timetableFixture {
	t.Helper()
	assignments := newMemoryAssignments(roster)
	cacheRepo := newMemoryCache()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewTimetableService(&stubTimetableSource{records: records}, assignments, cache, time.Minute, NewMetricsService(), clock, zap.NewNop())
	report := svc.Load(context.Background())
	require.Empty(t, report.Skipped)
	return timetableFixture{svc: svc, assignments: assignments, cache: cacheRepo}
}

func janeRoster() models.Roster {
	return models.Roster{"Jane": {{Class: "FORM 1", Subject: "MATH"}}}
}
