package models

// ActivitySession is a session as it appears inside a day bucket.
type ActivitySession struct {
	Session
	ProjectName string `json:"projectName,omitempty"`
}

// DailyActivity is one calendar day of sessions.
type DailyActivity struct {
	Date         string            `json:"date"` // YYYY-MM-DD
	SessionCount int               `json:"sessionCount"`
	MessageCount int               `json:"messageCount"`
	Sessions     []ActivitySession `json:"sessions"`
}

// ActivityTotals summarizes a set of day buckets.
type ActivityTotals struct {
	TotalSessions    int       `json:"totalSessions"`
	TotalMessages    int       `json:"totalMessages"`
	MaxDailyMessages int       `json:"maxDailyMessages"`
	DateRange        DateRange `json:"dateRange"`
}

// ActivityReport is a day-by-day timeline, newest day first.
type ActivityReport struct {
	Days    []DailyActivity `json:"days"`
	Summary ActivityTotals  `json:"summary"`
}

// ProjectBreakdown is one project's share of an activity range.
type ProjectBreakdown struct {
	ProjectID    string `json:"projectId"`
	ProjectName  string `json:"projectName"`
	ProjectPath  string `json:"projectPath"`
	SessionCount int    `json:"sessionCount"`
	MessageCount int    `json:"messageCount"`
}

// DailyBreakdown is one day's totals without the session list.
type DailyBreakdown struct {
	Date         string `json:"date"`
	SessionCount int    `json:"sessionCount"`
	MessageCount int    `json:"messageCount"`
}

// ActivitySummary breaks an activity range down by project and by day.
type ActivitySummary struct {
	DateRange        DateRange          `json:"dateRange"`
	TotalSessions    int                `json:"totalSessions"`
	TotalMessages    int                `json:"totalMessages"`
	ProjectBreakdown []ProjectBreakdown `json:"projectBreakdown"`
	DailyBreakdown   []DailyBreakdown   `json:"dailyBreakdown"`
}
