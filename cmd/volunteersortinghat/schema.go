package main

import (
	"time"
)

// input holds the JSON document the harness reads: pre-parsed shifts,
// volunteers, and settings (spec §6). Points fields are plain floats in
// half-unit increments here; main.go scales them to deci-points before
// they reach the core.
type input struct {
	Shifts     []shiftInput     `json:"shifts"`
	Volunteers []volunteerInput `json:"volunteers"`
	Settings   settingsInput    `json:"settings"`
}

type shiftInput struct {
	ID       string    `json:"id"`
	Date     string    `json:"date"`
	Role     string    `json:"role"`
	Start    time.Time `json:"start_time"`
	End      time.Time `json:"end_time"`
	Capacity int       `json:"capacity"`
	Points   float64   `json:"points"`
}

type volunteerInput struct {
	Name              string         `json:"name"`
	PreAssignedPoints float64        `json:"pre_assigned_points"`
	Preferences       map[string]int `json:"preferences"`
}

type settingsInput struct {
	MinPoints          float64 `json:"min_points"`
	MaxOver            float64 `json:"max_over"`
	MaxShifts          int     `json:"max_shifts"`
	ForbidBackToBack   bool    `json:"forbid_back_to_back"`
	BackToBackGapHours float64 `json:"back_to_back_gap_hours"`
	GuaranteeLevel     int     `json:"guarantee_level"`
	AllowRelaxation    bool    `json:"allow_relaxation"`
}

// options holds engineering-facing flags, set via the struct-tag
// convention the teacher apps use (json + usage + default), parsed by
// github.com/itzg/go-flagsfiller through run.CLI.
type options struct {
	Seed     int64         `json:"seed" default:"1" usage:"deterministic tie-breaking seed"`
	Deadline time.Duration `json:"deadline" default:"30s" usage:"wall-clock deadline for the whole run"`
	Verbose  bool          `json:"verbose" default:"false" usage:"enable development-mode structured logging"`
}

// output is what the harness prints: a direct projection of
// core.SolverResult, not a core type itself — this package owns its own
// presentation shape.
type output struct {
	RunID      string               `json:"run_id"`
	Status     string               `json:"status"`
	Phase      int                  `json:"phase"`
	Summary    string               `json:"summary"`
	Assignment []assignmentOutput   `json:"assignment"`
	Relaxation *relaxationOutput    `json:"relaxation,omitempty"`
	Diagnosis  []diagnosisOutput    `json:"diagnosis,omitempty"`
	Metrics    *metricsOutput       `json:"metrics,omitempty"`
}

type assignmentOutput struct {
	Volunteer string `json:"volunteer"`
	ShiftID   string `json:"shift_id"`
}

type relaxationOutput struct {
	Level               string  `json:"level"`
	MinPointsMultiplier float64 `json:"min_points_multiplier"`
	MaxOverMultiplier   float64 `json:"max_over_multiplier"`
	MaxShiftsMultiplier float64 `json:"max_shifts_multiplier"`
}

type diagnosisOutput struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

type metricsOutput struct {
	MinAvgSatisfaction     float64 `json:"min_avg_satisfaction"`
	MaxAvgSatisfaction     float64 `json:"max_avg_satisfaction"`
	MeanAvgSatisfaction    float64 `json:"mean_avg_satisfaction"`
	StdDevAvgSatisfaction  float64 `json:"stddev_avg_satisfaction"`
	FairnessIndex          float64 `json:"fairness_index"`
	PreferencePct          float64 `json:"preference_pct"`
	EffectiveMinReachedPct float64 `json:"effective_min_reached_pct"`
}
