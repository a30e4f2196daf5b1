package types

// SpamStatus summarizes the reputation of one number from one requester's
// point of view.
type SpamStatus struct {
	PhoneNumber        string  `json:"phone_number"`
	SpamLikelihood     float64 `json:"spam_likelihood"`
	TotalReports       int     `json:"total_reports"`
	RecentReportsCount int     `json:"recent_reports_count"`
	ReportedByUser     bool    `json:"reported_by_user"`
	IsUserContact      bool    `json:"is_user_contact"`
}

// ReportOutcome is returned by the spam write path
type ReportOutcome struct {
	ReportID       string  `json:"report_id,omitempty"`
	PhoneNumber    string  `json:"phone_number"`
	SpamLikelihood float64 `json:"current_spam_likelihood"`
}

// NumberReportCount pairs a phone number with its active report count
type NumberReportCount struct {
	PhoneNumber string `json:"phone_number"`
	ReportCount int    `json:"report_count"`
}

// BucketCount is a count keyed by a small integer (weekday 0-6, hour 0-23)
type BucketCount struct {
	Bucket int `json:"bucket"`
	Count  int `json:"count"`
}

// LikelihoodDistribution buckets reported numbers by active report count
type LikelihoodDistribution struct {
	High   int `json:"high"`   // >= 10 reports
	Medium int `json:"medium"` // 5-9 reports
	Low    int `json:"low"`    // < 5 reports
}

// SpamStatistics is a system-wide summary of active spam reports
type SpamStatistics struct {
	TotalReports        int                    `json:"total_reports"`
	ReportsToday        int                    `json:"reports_today"`
	ReportsThisWeek     int                    `json:"reports_this_week"`
	ReportsThisMonth    int                    `json:"reports_this_month"`
	MostReportedNumbers []NumberReportCount    `json:"most_reported_numbers"`
	Distribution        LikelihoodDistribution `json:"spam_likelihood_distribution"`
	ReportsByWeekday    []BucketCount          `json:"reports_by_day_of_week"`
	PeakReportingHours  []BucketCount          `json:"peak_reporting_hours"`
}
