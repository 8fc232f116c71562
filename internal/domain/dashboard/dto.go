package dashboard

import "github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the dashboard endpoint
type DashboardResponse struct {
	Role              string                    `json:"role"`
	Month             string                    `json:"month"` // Format: "YYYY-MM"
	MonthlyStatistics report.StatisticsSnapshot `json:"monthly_statistics"`
	TodayStats        AttendanceStatsResponse   `json:"today_stats"`
	RecentAttendance  []AttendanceRecordItem    `json:"recent_attendance"`
	PendingLeave      int64                     `json:"pending_leave"`
	LeaveAllowance    *LeaveAllowanceResponse   `json:"leave_allowance,omitempty"`
	Degraded          bool                      `json:"degraded"`
}

// ========== DAILY ATTENDANCE STATS (pie chart) ==========

// AttendanceStatsResponse represents attendance statistics for a specific day
type AttendanceStatsResponse struct {
	OnTime        int    `json:"on_time"`
	Late          int    `json:"late"`
	Absent        int    `json:"absent"`
	Leave         int    `json:"leave"`
	Total         int    `json:"total"`
	OnTimePercent int    `json:"on_time_percent"`
	LatePercent   int    `json:"late_percent"`
	AbsentPercent int    `json:"absent_percent"`
	Date          string `json:"date"` // Format: "YYYY-MM-DD"
}

// AttendanceRecordItem represents a single attendance record in the list
type AttendanceRecordItem struct {
	No           int     `json:"no"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckIn      *string `json:"check_in,omitempty"` // Format: "HH:MM"
}

// LeaveAllowanceResponse is the actor's own remaining annual leave
type LeaveAllowanceResponse struct {
	Year      int `json:"year"`
	Quota     int `json:"quota"`
	Remaining int `json:"remaining"`
}
