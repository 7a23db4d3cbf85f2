// Package activity groups sessions into calendar days and summarizes them.
// Every date is taken in one fixed location, so a session's start, the
// "last N days" cutoff and explicit date bounds agree on where a day ends.
package activity

import (
	"sort"
	"time"

	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/models"
)

const (
	DateLayout  = "2006-01-02"
	DefaultDays = 14
	MaxDays     = 90
)

// Filter selects the sessions that take part in an aggregation. Bounds are
// inclusive and apply to start time.
type Filter struct {
	Since *time.Time
	Until *time.Time
	Type  models.SessionType
}

// Match reports whether a session passes. Sessions without a start time
// never pass: they have no day.
func (f Filter) Match(s models.Session) bool {
	if s.StartTime == nil || !f.Type.Match(s.ID) {
		return false
	}
	if f.Since != nil && s.StartTime.Before(*f.Since) {
		return false
	}
	if f.Until != nil && s.StartTime.After(*f.Until) {
		return false
	}
	return true
}

// Aggregator buckets sessions by day in Location.
type Aggregator struct {
	Location *time.Location
}

// New returns an Aggregator for loc; nil means UTC.
func New(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{Location: loc}
}

// Day is the calendar date of t in the aggregator's location.
func (a *Aggregator) Day(t time.Time) string {
	return t.In(a.Location).Format(DateLayout)
}

// Cutoff is the instant N days before now. Sessions starting before it are
// outside a "last N days" window.
func (a *Aggregator) Cutoff(now time.Time, days int) time.Time {
	return now.In(a.Location).AddDate(0, 0, -days)
}

// ParseDays validates a day count; zero means DefaultDays.
func ParseDays(days int) (int, error) {
	switch {
	case days == 0:
		return DefaultDays, nil
	case days < 0 || days > MaxDays:
		return 0, ccerrors.InvalidInput("days", days, "must be between 1 and 90")
	}
	return days, nil
}

// DateRange turns inclusive YYYY-MM-DD bounds into instants covering whole
// days: start at midnight, end at the last nanosecond of its day. Either
// bound may be empty.
func (a *Aggregator) DateRange(start, end string) (models.DateRange, error) {
	var r models.DateRange
	if start != "" {
		t, err := time.ParseInLocation(DateLayout, start, a.Location)
		if err != nil {
			return r, ccerrors.InvalidInput("startDate", start, "must be YYYY-MM-DD")
		}
		r.Start = &t
	}
	if end != "" {
		t, err := time.ParseInLocation(DateLayout, end, a.Location)
		if err != nil {
			return r, ccerrors.InvalidInput("endDate", end, "must be YYYY-MM-DD")
		}
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return r, ccerrors.InvalidInput("endDate", end, "must not precede startDate")
	}
	return r, nil
}

// Timeline buckets sessions by the day they started. Days with no sessions
// are omitted. Days are newest first; sessions within a day newest first.
func (a *Aggregator) Timeline(sessions []models.ActivitySession) models.ActivityReport {
	buckets := map[string]*models.DailyActivity{}
	for _, s := range sessions {
		if s.StartTime == nil {
			continue
		}
		date := a.Day(*s.StartTime)
		b, ok := buckets[date]
		if !ok {
			b = &models.DailyActivity{Date: date, Sessions: []models.ActivitySession{}}
			buckets[date] = b
		}
		b.Sessions = append(b.Sessions, s)
		b.SessionCount++
		b.MessageCount += s.MessageCount
	}

	report := models.ActivityReport{Days: make([]models.DailyActivity, 0, len(buckets))}
	for _, b := range buckets {
		sort.SliceStable(b.Sessions, func(i, j int) bool {
			si, sj := b.Sessions[i], b.Sessions[j]
			if !si.StartTime.Equal(*sj.StartTime) {
				return si.StartTime.After(*sj.StartTime)
			}
			return si.ID < sj.ID
		})
		report.Days = append(report.Days, *b)

		report.Summary.TotalSessions += b.SessionCount
		report.Summary.TotalMessages += b.MessageCount
		report.Summary.MaxDailyMessages = max(report.Summary.MaxDailyMessages, b.MessageCount)
	}
	sort.Slice(report.Days, func(i, j int) bool { return report.Days[i].Date > report.Days[j].Date })
	return report
}

// Summarize breaks sessions down by project and by day, without the
// session lists. Projects are ordered by message count, days newest first.
func (a *Aggregator) Summarize(sessions []models.ActivitySession) models.ActivitySummary {
	summary := models.ActivitySummary{
		ProjectBreakdown: []models.ProjectBreakdown{},
		DailyBreakdown:   []models.DailyBreakdown{},
	}
	byProject := map[string]*models.ProjectBreakdown{}
	byDay := map[string]*models.DailyBreakdown{}

	for _, s := range sessions {
		if s.StartTime == nil {
			continue
		}
		p, ok := byProject[s.ProjectID]
		if !ok {
			p = &models.ProjectBreakdown{ProjectID: s.ProjectID, ProjectName: s.ProjectName, ProjectPath: s.ProjectPath}
			byProject[s.ProjectID] = p
		}
		p.SessionCount++
		p.MessageCount += s.MessageCount

		date := a.Day(*s.StartTime)
		d, ok := byDay[date]
		if !ok {
			d = &models.DailyBreakdown{Date: date}
			byDay[date] = d
		}
		d.SessionCount++
		d.MessageCount += s.MessageCount

		summary.TotalSessions++
		summary.TotalMessages += s.MessageCount
	}

	for _, p := range byProject {
		summary.ProjectBreakdown = append(summary.ProjectBreakdown, *p)
	}
	sort.Slice(summary.ProjectBreakdown, func(i, j int) bool {
		pi, pj := summary.ProjectBreakdown[i], summary.ProjectBreakdown[j]
		if pi.MessageCount != pj.MessageCount {
			return pi.MessageCount > pj.MessageCount
		}
		return pi.ProjectID < pj.ProjectID
	})

	for _, d := range byDay {
		summary.DailyBreakdown = append(summary.DailyBreakdown, *d)
	}
	sort.Slice(summary.DailyBreakdown, func(i, j int) bool {
		return summary.DailyBreakdown[i].Date > summary.DailyBreakdown[j].Date
	})
	return summary
}
