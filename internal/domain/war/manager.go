package war

import (
	"fmt"

	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/leverage"
)

// Manager WAR blend and overperformance credit.
const (
	decisionWeight        = 0.6
	overperformanceWeight = 0.4
	overperformanceCredit = 0.30
	baseExpectedWinPct    = 0.35
	salaryWinPctRange     = 0.30
)

// DecisionType is a tactical call a manager can make.
type DecisionType string

// Decision types.
const (
	DecisionPitchingChange  DecisionType = "pitching_change"
	DecisionLeavePitcherIn  DecisionType = "leave_pitcher_in"
	DecisionPinchHitter     DecisionType = "pinch_hitter"
	DecisionPinchRunner     DecisionType = "pinch_runner"
	DecisionDefensiveSub    DecisionType = "defensive_sub"
	DecisionIntentionalWalk DecisionType = "intentional_walk"
	DecisionSteal           DecisionType = "steal_call"
	DecisionBunt            DecisionType = "bunt_call"
	DecisionSqueeze         DecisionType = "squeeze_call"
	DecisionHitAndRun       DecisionType = "hit_and_run"
	DecisionShiftOn         DecisionType = "shift_on"
	DecisionShiftOff        DecisionType = "shift_off"
)

// Outcome is how a decision turned out.
type Outcome string

// Decision outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeNeutral Outcome = "neutral"
)

type decisionValue struct {
	success float64
	failure float64
}

var decisionValues = map[DecisionType]decisionValue{
	DecisionPitchingChange:  {0.4, -0.3},
	DecisionLeavePitcherIn:  {0.2, -0.4},
	DecisionPinchHitter:     {0.5, -0.4},
	DecisionPinchRunner:     {0.4, -0.4},
	DecisionDefensiveSub:    {0.4, -0.3},
	DecisionIntentionalWalk: {0.3, -0.5},
	DecisionSteal:           {0.3, -0.4},
	DecisionBunt:            {0.2, -0.4},
	DecisionSqueeze:         {0.6, -0.5},
	DecisionHitAndRun:       {0.3, -0.4},
	DecisionShiftOn:         {0.2, -0.3},
	DecisionShiftOff:        {0.1, -0.1},
}

// Decision is one resolved tactical call.
type Decision struct {
	ID        string         `json:"id"`
	GameID    string         `json:"game_id"`
	ManagerID string         `json:"manager_id"`
	Type      DecisionType   `json:"type"`
	Outcome   Outcome        `json:"outcome"`
	State     leverage.State `json:"state"`
	// LI overrides the index computed from State when positive. It is clamped
	// to the index bounds.
	LI float64 `json:"li,omitempty"`
}

// Leverage returns the decision's LI.
func (d Decision) Leverage() float64 {
	if d.LI > 0 {
		return leverage.Clamp(d.LI)
	}
	return leverage.Index(d.State)
}

// Validate rejects unknown decision types and outcomes.
func (d Decision) Validate() error {
	if _, ok := decisionValues[d.Type]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDecision, string(d.Type))
	}
	switch d.Outcome {
	case OutcomeSuccess, OutcomeFailure, OutcomeNeutral:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidOutcome, string(d.Outcome))
}

// Impact is the decision's run value weighted by leverage. Neutral outcomes are worth zero.
func (d Decision) Impact() (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	v := decisionValues[d.Type]
	switch d.Outcome {
	case OutcomeSuccess:
		return v.success * d.Leverage(), nil
	case OutcomeFailure:
		return v.failure * d.Leverage(), nil
	case OutcomeNeutral:
	}
	return 0, nil
}

// ManagerInput is a manager's season: resolved decisions plus the team record.
type ManagerInput struct {
	Decisions []Decision `json:"decisions"`
	Wins      int        `json:"wins"`
	Losses    int        `json:"losses"`
	// SalaryScore is the team payroll normalized to [0, 1].
	SalaryScore float64 `json:"salary_score"`
}

// ManagerResult breaks mWAR into its components.
type ManagerResult struct {
	DecisionRuns        float64 `json:"decision_runs"`
	DecisionWAR         float64 `json:"decision_war"`
	ExpectedWinPct      float64 `json:"expected_win_pct"`
	ActualWinPct        float64 `json:"actual_win_pct"`
	OverperformanceWins float64 `json:"overperformance_wins"`
	OverperformanceWAR  float64 `json:"overperformance_war"`
	RunsPerWin          float64 `json:"runs_per_win"`
	WAR                 float64 `json:"war"`
	Decisions           int     `json:"decisions"`
	Successes           int     `json:"successes"`
	Failures            int     `json:"failures"`
	Rejected            int     `json:"rejected"`
	HighLeverage        int     `json:"high_leverage"`
	SeasonGames         int     `json:"season_games"`
	Rating              string  `json:"rating"`
}

// SuccessRate is successes over decisions that were not neutral.
func (r ManagerResult) SuccessRate() float64 {
	if n := r.Successes + r.Failures; n > 0 {
		return float64(r.Successes) / float64(n)
	}
	return 0
}

// ManagerWAR computes mWAR as 60% decision value and 40% record overperformance
// against a payroll-based expectation.
func ManagerWAR(in ManagerInput, ctx *league.Context, seasonGames int) ManagerResult {
	_, seasonGames = resolve(ctx, seasonGames)
	rpw := league.RunsPerWin(seasonGames)
	res := ManagerResult{RunsPerWin: rpw, SeasonGames: seasonGames}

	for _, d := range in.Decisions {
		impact, err := d.Impact()
		if err != nil {
			res.Rejected++
			continue
		}
		res.Decisions++
		switch d.Outcome {
		case OutcomeSuccess:
			res.Successes++
		case OutcomeFailure:
			res.Failures++
		case OutcomeNeutral:
		}
		if d.Leverage() >= leverage.HighThreshold {
			res.HighLeverage++
		}
		res.DecisionRuns += impact
	}
	res.DecisionWAR = res.DecisionRuns / rpw

	if games := in.Wins + in.Losses; games > 0 {
		salary := min(1, max(0, in.SalaryScore))
		res.ExpectedWinPct = baseExpectedWinPct + salary*salaryWinPctRange
		res.ActualWinPct = float64(in.Wins) / float64(games)
		res.OverperformanceWins = (res.ActualWinPct - res.ExpectedWinPct) * float64(games)
		res.OverperformanceWAR = res.OverperformanceWins * overperformanceCredit
	}

	res.WAR = res.DecisionWAR*decisionWeight + res.OverperformanceWAR*overperformanceWeight
	res.Rating = ManagerRating(res.WAR)
	return res
}

// ManagerRating labels an mWAR.
func ManagerRating(war float64) string {
	switch {
	case war >= 4.0:
		return "Elite"
	case war >= 2.5:
		return "Excellent"
	case war >= 1.0:
		return "Above Average"
	case war >= 0:
		return "Average"
	case war >= -1.0:
		return "Below Average"
	}
	return "Poor"
}
