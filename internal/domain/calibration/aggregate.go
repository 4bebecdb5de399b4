package calibration

import (
	"fmt"

	"github.com/okian/sabr/internal/domain/war"
)

// SeasonAggregate holds league-wide totals for one season.
type SeasonAggregate struct {
	SeasonID string `json:"season_id"`
	// Complete is set once every game of the season has been summed.
	Complete bool `json:"complete"`
	Games    int  `json:"games"`

	PA               int `json:"pa"`
	AB               int `json:"ab"`
	Hits             int `json:"hits"`
	Singles          int `json:"singles"`
	Doubles          int `json:"doubles"`
	Triples          int `json:"triples"`
	HomeRuns         int `json:"home_runs"`
	Walks            int `json:"walks"`
	IntentionalWalks int `json:"intentional_walks"`
	HitByPitch       int `json:"hit_by_pitch"`
	Strikeouts       int `json:"strikeouts"`
	SacFlies         int `json:"sac_flies"`
	Runs             int `json:"runs"`

	IP                 float64 `json:"ip"`
	EarnedRuns         int     `json:"earned_runs"`
	PitchingHomeRuns   int     `json:"pitching_home_runs"`
	PitchingWalks      int     `json:"pitching_walks"`
	PitchingHBP        int     `json:"pitching_hbp"`
	PitchingStrikeouts int     `json:"pitching_strikeouts"`
}

// AddBatting folds a batting line into the totals.
func (a *SeasonAggregate) AddBatting(s war.BattingStats) {
	a.PA += s.PA
	a.AB += s.AB
	a.Hits += s.Hits
	a.Singles += s.Singles
	a.Doubles += s.Doubles
	a.Triples += s.Triples
	a.HomeRuns += s.HomeRuns
	a.Walks += s.Walks
	a.IntentionalWalks += s.IntentionalWalks
	a.HitByPitch += s.HitByPitch
	a.Strikeouts += s.Strikeouts
	a.SacFlies += s.SacFlies
	a.Runs += s.Runs
}

// AddPitching folds a pitching line into the totals.
func (a *SeasonAggregate) AddPitching(s war.PitchingStats) {
	a.IP += s.IP
	a.EarnedRuns += s.EarnedRuns
	a.PitchingHomeRuns += s.HomeRunsAllowed
	a.PitchingWalks += s.Walks
	a.PitchingHBP += s.HitByPitch
	a.PitchingStrikeouts += s.Strikeouts
}

// Batting returns the totals as a single batting line.
func (a SeasonAggregate) Batting() war.BattingStats {
	return war.BattingStats{
		PA:               a.PA,
		AB:               a.AB,
		Hits:             a.Hits,
		Singles:          a.Singles,
		Doubles:          a.Doubles,
		Triples:          a.Triples,
		HomeRuns:         a.HomeRuns,
		Walks:            a.Walks,
		IntentionalWalks: a.IntentionalWalks,
		HitByPitch:       a.HitByPitch,
		SacFlies:         a.SacFlies,
		Strikeouts:       a.Strikeouts,
		Runs:             a.Runs,
	}
}

// Validate rejects partial seasons and samples below minPA.
func (a SeasonAggregate) Validate(minPA int) error {
	if a.SeasonID == "" {
		return ErrMissingSeason
	}
	if !a.Complete {
		return fmt.Errorf("%w: %s", ErrIncompleteSeason, a.SeasonID)
	}
	if a.PA < minPA {
		return fmt.Errorf("%w: %d PA, need %d", ErrInsufficientSample, a.PA, minPA)
	}
	return nil
}
