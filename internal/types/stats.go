package types

// DailyCount is the number of resumes created on one UTC day (YYYY-MM-DD).
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	TotalUsers   int64        `json:"totalUsers"`
	TotalResumes int64        `json:"totalResumes"`
	ResumesByDay []DailyCount `json:"resumesByDay"`
}
