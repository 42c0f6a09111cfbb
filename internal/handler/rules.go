package handler

import (
	"fmt"
	"net/http"
)

type ruleEntry struct {
	Description   string  `json:"description"`
	LimitHours    float64 `json:"limit_hours,omitempty"`
	TriggerHours  float64 `json:"trigger_hours,omitempty"`
	BreakMinutes  float64 `json:"break_minutes,omitempty"`
	PeriodDays    int     `json:"period_days,omitempty"`
	RequiredHours float64 `json:"required_hours,omitempty"`
}

type rulesResponse struct {
	Title string               `json:"title"`
	Rules map[string]ruleEntry `json:"rules"`
}

// GetRules handles GET /hos-rules. The numbers come from the rules the
// service evaluates with.
func (s *Server) GetRules(w http.ResponseWriter, _ *http.Request) {
	r := s.hos.Rules()
	drive, duty := r.MaxDriving.Hours(), r.MaxDutyWindow.Hours()
	trigger, brk := r.BreakAfter.Hours(), r.MinBreak.Minutes()
	cycle, reset, restart := r.MaxCycle.Hours(), r.Reset.Hours(), r.Restart.Hours()

	writeJSON(w, http.StatusOK, rulesResponse{
		Title: "Interstate Truck Driver's Guide to Hours of Service (April 2022)",
		Rules: map[string]ruleEntry{
			fmt.Sprintf("%.0f_hour_driving_limit", drive): {
				Description: fmt.Sprintf("Maximum %.0f hours of driving allowed within the %.0f-hour window", drive, duty),
				LimitHours:  drive,
			},
			fmt.Sprintf("%.0f_hour_duty_window", duty): {
				Description: fmt.Sprintf("Maximum %.0f consecutive hours on-duty, including driving and on-duty not driving", duty),
				LimitHours:  duty,
			},
			fmt.Sprintf("%.0f_minute_break", brk): {
				Description:  fmt.Sprintf("Required %.0f-minute break after %.0f cumulative hours of driving", brk, trigger),
				TriggerHours: trigger,
				BreakMinutes: brk,
			},
			fmt.Sprintf("%.0f_hour_%d_day_rule", cycle, r.CycleDays): {
				Description: fmt.Sprintf("Cannot exceed %.0f hours on-duty in any %d consecutive days", cycle, r.CycleDays),
				LimitHours:  cycle,
				PeriodDays:  r.CycleDays,
			},
			fmt.Sprintf("%.0f_hour_off_duty", reset): {
				Description:   fmt.Sprintf("Must have at least %.0f consecutive hours off-duty before starting a new %.0f-hour window", reset, duty),
				RequiredHours: reset,
			},
			fmt.Sprintf("%.0f_hour_restart", restart): {
				Description:   fmt.Sprintf("A %.0f+ hour off-duty period restarts the %.0f-hour/%d-day clock", restart, cycle, r.CycleDays),
				RequiredHours: restart,
			},
		},
	})
}
