package grade

import (
	"math"
	"math/rand/v2"

	"github.com/okian/sabr/internal/domain/position"
)

// Rating bounds for generated prospects and the spread applied around the target.
const (
	minProspectRating = 15
	maxProspectRating = 85
	ratingSpread      = 10
)

// PitcherRole is the role a pitching prospect is drafted into.
type PitcherRole string

// Pitching prospect roles.
const (
	RoleStarter  PitcherRole = "SP"
	RoleReliever PitcherRole = "RP"
	RoleCloser   PitcherRole = "CP"
)

// Pitch is a pitch in a prospect's arsenal.
type Pitch string

// Pitch types.
const (
	FourSeam  Pitch = "4F"
	TwoSeam   Pitch = "2F"
	Curveball Pitch = "CB"
	Slider    Pitch = "SL"
	Changeup  Pitch = "CH"
	Forkball  Pitch = "FK"
	Cutter    Pitch = "CF"
	Screwball Pitch = "SB"
)

var offSpeed = []Pitch{Curveball, Slider, Changeup, Forkball, Cutter, Screwball}

// Prospect is a generated draft pick.
type Prospect struct {
	Round    int               `json:"round"`
	Position position.Position `json:"position"`
	Grade    Grade             `json:"grade"`
	Ceiling  Grade             `json:"ceiling"`
	Batter   *BatterRatings    `json:"batter,omitempty"`
	Pitcher  *PitcherRatings   `json:"pitcher,omitempty"`
	Role     PitcherRole       `json:"role,omitempty"`
	Arsenal  []Pitch           `json:"arsenal,omitempty"`
	Trait    string            `json:"trait,omitempty"`
}

// Generator draws prospects from the round and ceiling distributions.
// It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator drawing from rng. A nil rng uses a randomly seeded source.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng}
}

// ProspectGrade draws a grade for a pick in round. Round 1 is the richest,
// rounds 2 and 3 share a table, and every other round uses the late table.
func (g *Generator) ProspectGrade(round int) Grade {
	switch round {
	case 1:
		return sample(g.rng, firstRound)
	case 2, 3:
		return sample(g.rng, earlyRound)
	}
	return sample(g.rng, lateRound)
}

// Ceiling draws the potential ceiling of a prospect graded current.
// Grades outside the draft range get B-.
func (g *Generator) Ceiling(current Grade) Grade {
	dist, ok := ceilings[current]
	if !ok {
		return BMinus
	}
	return sample(g.rng, dist)
}

// ProspectRatings generates tools for a position player whose weighted rating
// lands in the target grade's draft band. Positions without a bias get none.
func (g *Generator) ProspectRatings(target Grade, pos position.Position) BatterRatings {
	band, ok := draftTargets[target]
	if !ok {
		band = draftTargets[C]
	}
	want := band.min + g.rng.Float64()*(band.max-band.min)
	bias := PositionBiases[pos]

	r := BatterRatings{
		Power:    g.jitter(want + float64(bias.Power)),
		Contact:  g.jitter(want + float64(bias.Contact)),
		Speed:    g.jitter(want + float64(bias.Speed)),
		Fielding: g.jitter(want + float64(bias.Fielding)),
		Arm:      g.jitter(want + float64(bias.Arm)),
	}
	if PositionPlayerGrade(r) != target {
		adj := want - r.Weighted()
		r.Power = clampRating(float64(r.Power) + adj*batterWeights.power)
		r.Contact = clampRating(float64(r.Contact) + adj*batterWeights.contact)
		r.Speed = clampRating(float64(r.Speed) + adj*batterWeights.speed)
		r.Fielding = clampRating(float64(r.Fielding) + adj*batterWeights.fielding)
		r.Arm = clampRating(float64(r.Arm) + adj*batterWeights.arm)
	}
	return r
}

// PitcherProspectRatings generates tools for a pitcher. Starters lean on
// command, closers on stuff, and relievers are drawn as a power arm, a crafty
// arm or a balanced one.
func (g *Generator) PitcherProspectRatings(target Grade, role PitcherRole) PitcherRatings {
	band, ok := draftTargets[target]
	if !ok {
		band = draftTargets[C]
	}
	want := band.min + g.rng.Float64()*(band.max-band.min)

	var vel, jnk, acc float64
	switch role {
	case RoleStarter:
		vel, jnk, acc = -2, -3, 5
	case RoleCloser:
		vel, jnk, acc = 8, 5, -13
	default:
		switch style := g.rng.Float64(); {
		case style < 0.33:
			vel, acc = 10, -10
		case style < 0.66:
			jnk, vel = 10, -10
		}
	}
	return PitcherRatings{
		Velocity: g.jitter(want + vel),
		Junk:     g.jitter(want + jnk),
		Accuracy: g.jitter(want + acc),
	}
}

// Arsenal picks a fastball pair plus off-speed pitches; more junk means more pitches.
func (g *Generator) Arsenal(junk int) []Pitch {
	coin := 0
	if g.rng.Float64() > 0.5 {
		coin = 1
	}
	var n int
	switch {
	case junk >= 70:
		n = 3 + coin
	case junk >= 55:
		n = 2 + coin
	case junk >= 40:
		n = 1 + coin
	default:
		n = 1
	}
	pool := append([]Pitch(nil), offSpeed...)
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return append([]Pitch{FourSeam, TwoSeam}, pool[:n]...)
}

// Trait rolls for a prospect trait. Better grades are likelier to carry one.
func (g *Generator) Trait(grade Grade) string {
	odds, ok := traitOdds[grade]
	if !ok {
		odds = defaultTraitOdds
	}
	if g.rng.Float64() >= odds {
		return ""
	}
	return Traits[g.rng.IntN(len(Traits))]
}

// Prospect generates a full draft pick. A non-empty role makes a pitcher.
func (g *Generator) Prospect(round int, pos position.Position, role PitcherRole) Prospect {
	gr := g.ProspectGrade(round)
	p := Prospect{
		Round:    round,
		Position: pos,
		Grade:    gr,
		Ceiling:  g.Ceiling(gr),
	}
	if role != "" {
		r := g.PitcherProspectRatings(gr, role)
		p.Pitcher = &r
		p.Role = role
		p.Arsenal = g.Arsenal(r.Junk)
	} else {
		r := g.ProspectRatings(gr, pos)
		p.Batter = &r
	}
	p.Trait = g.Trait(gr)
	return p
}

func (g *Generator) jitter(v float64) int {
	return clampRating(v + (g.rng.Float64()-0.5)*ratingSpread*2)
}

func clampRating(v float64) int {
	return int(math.Max(minProspectRating, math.Min(maxProspectRating, math.Round(v))))
}

func sample[T any](rng *rand.Rand, dist []weighted[T]) T {
	roll := rng.Float64()
	var cum float64
	for _, w := range dist {
		cum += w.p
		if roll <= cum {
			return w.value
		}
	}
	return dist[len(dist)-1].value
}
