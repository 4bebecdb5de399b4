package war

import (
	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/leverage"
)

// FIP coefficients.
const (
	fipHR   = 13
	fipBB   = 3
	fipK    = 2
	ipToRun = 9.0
)

// Starter share boundaries for role classification.
const (
	starterShare  = 0.8
	relieverShare = 0.2
)

// PitchingRole classifies a pitcher by share of games started.
type PitchingRole string

// Pitching roles.
const (
	RoleStarter  PitchingRole = "starter"
	RoleReliever PitchingRole = "reliever"
	RoleSwingman PitchingRole = "swingman"
)

// PitchingStats is a pitcher's season line.
type PitchingStats struct {
	// IP is true innings (5⅔ is 5.667, not 5.2).
	IP              float64 `json:"ip"`
	Strikeouts      int     `json:"strikeouts"`
	Walks           int     `json:"walks"`
	HitByPitch      int     `json:"hit_by_pitch"`
	HomeRunsAllowed int     `json:"home_runs_allowed"`
	EarnedRuns      int     `json:"earned_runs"`
	GamesStarted    int     `json:"games_started"`
	GamesAppeared   int     `json:"games_appeared"`
	Saves           int     `json:"saves"`
	Holds           int     `json:"holds"`
	// AverageLI is the tracked mean entry leverage; zero means estimate from saves and holds.
	AverageLI float64 `json:"average_li,omitempty"`

	// liGames counts the appearances AverageLI was measured over.
	liGames int
}

// trackedGames is the number of appearances behind AverageLI. A single line
// with a leverage but no appearance count stands for one game.
func (s PitchingStats) trackedGames() int {
	if s.AverageLI <= 0 {
		return 0
	}
	if s.liGames > 0 {
		return s.liGames
	}
	return max(s.GamesAppeared, 1)
}

// Add accumulates o into s. AverageLI is averaged over tracked appearances
// only; lines without a leverage leave it unchanged.
func (s *PitchingStats) Add(o PitchingStats) {
	sg, og := s.trackedGames(), o.trackedGames()
	if og > 0 {
		s.AverageLI = (s.AverageLI*float64(sg) + o.AverageLI*float64(og)) / float64(sg+og)
	}
	s.liGames = sg + og
	s.IP += o.IP
	s.Strikeouts += o.Strikeouts
	s.Walks += o.Walks
	s.HitByPitch += o.HitByPitch
	s.HomeRunsAllowed += o.HomeRunsAllowed
	s.EarnedRuns += o.EarnedRuns
	s.GamesStarted += o.GamesStarted
	s.GamesAppeared += o.GamesAppeared
	s.Saves += o.Saves
	s.Holds += o.Holds
}

// PitchingResult breaks pWAR into its components.
type PitchingResult struct {
	FIP                float64      `json:"fip"`
	FIPTier            string       `json:"fip_tier,omitempty"`
	LeagueFIP          float64      `json:"league_fip"`
	FIPDiff            float64      `json:"fip_diff"`
	RunsAboveAverage   float64      `json:"runs_above_average"`
	ReplacementLevel   float64      `json:"replacement_level"`
	LeverageMultiplier float64      `json:"leverage_multiplier"`
	RunsPerWin         float64      `json:"runs_per_win"`
	WAR                float64      `json:"war"`
	IP                 float64      `json:"ip"`
	Role               PitchingRole `json:"role"`
	StarterShare       float64      `json:"starter_share"`
	SeasonGames        int          `json:"season_games"`
	Tier               string       `json:"tier"`
}

// FIP computes fielding-independent pitching. Zero innings yield zero.
func FIP(s PitchingStats, constant float64) float64 {
	if s.IP <= 0 {
		return 0
	}
	core := float64(fipHR*s.HomeRunsAllowed+fipBB*(s.Walks+s.HitByPitch)-fipK*s.Strikeouts) / s.IP
	return core + constant
}

// Role classifies a pitcher and returns the share of appearances that were starts.
// A pitcher with no appearances is treated as a starter.
func Role(gamesStarted, gamesAppeared int) (PitchingRole, float64) {
	if gamesAppeared <= 0 {
		return RoleStarter, 1
	}
	share := float64(gamesStarted) / float64(gamesAppeared)
	switch {
	case share >= starterShare:
		return RoleStarter, share
	case share <= relieverShare:
		return RoleReliever, share
	}
	return RoleSwingman, share
}

// ReplacementLevel blends starter and reliever replacement wins per nine innings by starter share.
func ReplacementLevel(ctx *league.Context, share float64) float64 {
	return ctx.StarterReplacement*share + ctx.RelieverReplacement*(1-share)
}

// EstimateLeverage estimates a pitcher's gmLI from the bullpen role implied by
// save and hold rates.
func EstimateLeverage(s PitchingStats) float64 {
	relief := s.GamesAppeared - s.GamesStarted
	return leverage.EstimateGmLI(leverage.BullpenRole(relief, s.Saves, s.Holds), s.Saves, s.Holds)
}

// PitchingWAR computes pWAR for a season line. Relievers are credited for the
// leverage they pitched in with a multiplier of (gmLI+1)/2.
func PitchingWAR(s PitchingStats, ctx *league.Context, seasonGames int) PitchingResult {
	ctx, seasonGames = resolve(ctx, seasonGames)
	rpw := league.RunsPerWin(seasonGames)
	role, share := Role(s.GamesStarted, s.GamesAppeared)
	res := PitchingResult{
		LeagueFIP:          ctx.LeagueFIP,
		ReplacementLevel:   ReplacementLevel(ctx, share),
		LeverageMultiplier: 1,
		RunsPerWin:         rpw,
		IP:                 s.IP,
		Role:               role,
		StarterShare:       share,
		SeasonGames:        seasonGames,
	}
	if s.IP <= 0 {
		res.Tier = PitchingTier(0)
		return res
	}

	res.FIP = FIP(s, ctx.FIPConstant)
	res.FIPTier = FIPTier(res.FIP)
	res.FIPDiff = ctx.LeagueFIP - res.FIP
	innings := s.IP / ipToRun
	res.RunsAboveAverage = res.FIPDiff * innings

	raw := res.RunsAboveAverage/rpw + res.ReplacementLevel*innings
	if role == RoleReliever {
		li := s.AverageLI
		if li <= 0 {
			li = EstimateLeverage(s)
		}
		res.LeverageMultiplier = (li + 1) / 2
	}
	res.WAR = raw * res.LeverageMultiplier
	res.Tier = PitchingTier(res.WAR)
	return res
}

// PitchingTier labels a pWAR.
func PitchingTier(war float64) string {
	switch {
	case war > 5.0:
		return "MVP-caliber"
	case war > 3.0:
		return "All-Star"
	case war > 1.5:
		return "Above Average"
	case war > 0.5:
		return "Average"
	case war > 0:
		return "Below Average"
	}
	return "Replacement"
}

// FIPTier labels a FIP.
func FIPTier(fip float64) string {
	switch {
	case fip < 3.00:
		return "Excellent"
	case fip < 3.50:
		return "Great"
	case fip < 4.00:
		return "Above Average"
	case fip < 4.50:
		return "Average"
	case fip < 5.00:
		return "Below Average"
	}
	return "Poor"
}
