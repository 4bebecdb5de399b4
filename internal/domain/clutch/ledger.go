package clutch

import (
	"sort"

	"github.com/okian/sabr/internal/domain/leverage"
)

// Tier labels a net clutch rating.
type Tier string

// Clutch tiers from best to worst.
const (
	TierElite       Tier = "Elite"
	TierClutch      Tier = "Clutch"
	TierReliable    Tier = "Reliable"
	TierAverage     Tier = "Average"
	TierShaky       Tier = "Shaky"
	TierChokeArtist Tier = "Choke Artist"
)

// Confidence grades how many high-leverage moments back a rating.
type Confidence string

// Rating confidence levels.
const (
	ConfidenceInsufficient Confidence = "INSUFFICIENT"
	ConfidenceLow          Confidence = "LOW"
	ConfidenceMedium       Confidence = "MEDIUM"
	ConfidenceHigh         Confidence = "HIGH"
)

// Rating is a player's accumulated clutch record.
type Rating struct {
	PlayerID            string  `json:"player_id"`
	ClutchPoints        float64 `json:"clutch_points"`
	ChokePoints         float64 `json:"choke_points"`
	NetClutch           float64 `json:"net_clutch"`
	Moments             int     `json:"moments"`
	LIExposure          float64 `json:"li_exposure"`
	HighLeverageMoments int     `json:"high_leverage_moments"`
}

// Tier labels the rating by net clutch.
func (r Rating) Tier() Tier {
	switch n := r.NetClutch; {
	case n >= 10:
		return TierElite
	case n >= 5:
		return TierClutch
	case n >= 1:
		return TierReliable
	case n >= -1:
		return TierAverage
	case n >= -5:
		return TierShaky
	}
	return TierChokeArtist
}

// Confidence grades the rating by its high-leverage sample.
func (r Rating) Confidence() Confidence {
	switch n := r.HighLeverageMoments; {
	case n >= 50:
		return ConfidenceHigh
	case n >= 25:
		return ConfidenceMedium
	case n >= 10:
		return ConfidenceLow
	}
	return ConfidenceInsufficient
}

// MeanLI is the average leverage the player was exposed to.
func (r Rating) MeanLI() float64 {
	if r.Moments == 0 {
		return 0
	}
	return r.LIExposure / float64(r.Moments)
}

// Ledger accumulates contributions into per-player ratings.
// It is not safe for concurrent use; callers serialize access.
type Ledger struct {
	ratings map[string]*Rating
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{ratings: make(map[string]*Rating)}
}

// Record adds contributions to their players' ratings.
func (l *Ledger) Record(contribs ...Contribution) {
	for _, c := range contribs {
		r, ok := l.ratings[c.PlayerID]
		if !ok {
			r = &Rating{PlayerID: c.PlayerID}
			l.ratings[c.PlayerID] = r
		}
		switch {
		case c.Value > 0:
			r.ClutchPoints += c.Value
		case c.Value < 0:
			r.ChokePoints += -c.Value
		}
		r.NetClutch = r.ClutchPoints - r.ChokePoints
		r.Moments++
		r.LIExposure += c.LI
		if leverage.IsClutch(c.LI) {
			r.HighLeverageMoments++
		}
	}
}

// Rating returns a copy of the player's rating.
func (l *Ledger) Rating(playerID string) (Rating, bool) {
	r, ok := l.ratings[playerID]
	if !ok {
		return Rating{PlayerID: playerID}, false
	}
	return *r, true
}

// All returns every rating ordered by net clutch, best first.
func (l *Ledger) All() []Rating {
	out := make([]Rating, 0, len(l.ratings))
	for _, r := range l.ratings {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetClutch != out[j].NetClutch {
			return out[i].NetClutch > out[j].NetClutch
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
