// Package season accumulates game events into per-player season lines and the
// league-wide totals calibration consumes.
package season

import (
	"fmt"
	"sort"
	"sync"

	"github.com/okian/sabr/internal/domain/calibration"
	"github.com/okian/sabr/internal/domain/clutch"
	"github.com/okian/sabr/internal/domain/league"
	"github.com/okian/sabr/internal/domain/leverage"
	"github.com/okian/sabr/internal/domain/model"
	"github.com/okian/sabr/internal/domain/park"
	"github.com/okian/sabr/internal/domain/position"
	"github.com/okian/sabr/internal/domain/war"
)

// Option configures a Ledger.
type Option func(*Ledger)

// WithParks sets the stadium table home parks are resolved against.
func WithParks(d *park.Deriver) Option {
	return func(l *Ledger) {
		if d != nil {
			l.parks = d
		}
	}
}

// Ledger holds every open and closed season. It is safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	seasons map[string]*book
	parks   *park.Deriver
}

type batter struct {
	stats    war.BattingStats
	homePark string
	bats     park.Handedness
}

type record struct {
	wins, losses int
	salary       float64
}

// book is one season's state.
type book struct {
	id        string
	closed    bool
	games     map[string]struct{}
	batting   map[string]*batter
	pitching  map[string]*war.PitchingStats
	fielding  map[string][]war.FieldingEvent
	decisions map[string][]war.Decision
	records   map[string]*record
	clutch    *clutch.Ledger
	faced     map[string]*leverage.Accumulator
	players   map[string]struct{}
	agg       calibration.SeasonAggregate
}

func newBook(id string) *book {
	return &book{
		id:        id,
		games:     make(map[string]struct{}),
		batting:   make(map[string]*batter),
		pitching:  make(map[string]*war.PitchingStats),
		fielding:  make(map[string][]war.FieldingEvent),
		decisions: make(map[string][]war.Decision),
		records:   make(map[string]*record),
		clutch:    clutch.NewLedger(),
		faced:     make(map[string]*leverage.Accumulator),
		players:   make(map[string]struct{}),
		agg:       calibration.SeasonAggregate{SeasonID: id},
	}
}

// NewLedger returns an empty ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		seasons: make(map[string]*book),
		parks:   park.NewDeriver(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Apply folds one validated event into its season and returns the players whose
// values changed.
func (l *Ledger) Apply(e model.Event) ([]string, error) {
	e.Normalize()
	if err := e.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.seasons[e.SeasonID]
	if !ok {
		b = newBook(e.SeasonID)
		l.seasons[e.SeasonID] = b
	}
	if b.closed {
		return nil, fmt.Errorf("%w: %s", ErrSeasonClosed, e.SeasonID)
	}
	if e.GameID != "" {
		b.games[e.GameID] = struct{}{}
	}

	var touched []string
	switch e.Kind {
	case model.KindBatting:
		bt, ok := b.batting[e.PlayerID]
		if !ok {
			bt = &batter{}
			b.batting[e.PlayerID] = bt
		}
		bt.stats.Add(*e.Batting)
		if e.HomePark != "" {
			bt.homePark = e.HomePark
		}
		if e.Bats != "" {
			bt.bats = e.Bats
		}
		b.agg.AddBatting(*e.Batting)
		touched = append(touched, e.PlayerID)
	case model.KindPitching:
		ps, ok := b.pitching[e.PlayerID]
		if !ok {
			ps = &war.PitchingStats{}
			b.pitching[e.PlayerID] = ps
		}
		ps.Add(*e.Pitching)
		b.agg.AddPitching(*e.Pitching)
		touched = append(touched, e.PlayerID)
	case model.KindFielding:
		f := *e.Fielding
		b.fielding[f.PlayerID] = append(b.fielding[f.PlayerID], f)
		if f.GameID != "" {
			b.games[f.GameID] = struct{}{}
		}
		touched = append(touched, f.PlayerID)
	case model.KindDecision:
		d := *e.Decision
		b.decisions[d.ManagerID] = append(b.decisions[d.ManagerID], d)
		touched = append(touched, d.ManagerID)
	case model.KindPlay:
		contribs, err := clutch.Attribute(*e.Play)
		if err != nil {
			return nil, err
		}
		b.clutch.Record(contribs...)
		for _, c := range contribs {
			if c.Role == clutch.RolePitcher {
				acc, ok := b.faced[c.PlayerID]
				if !ok {
					acc = &leverage.Accumulator{}
					b.faced[c.PlayerID] = acc
				}
				acc.Add(c.LI)
			}
			touched = append(touched, c.PlayerID)
		}
	case model.KindResult:
		r, ok := b.records[e.PlayerID]
		if !ok {
			r = &record{}
			b.records[e.PlayerID] = r
		}
		if e.Result.Won {
			r.wins++
		} else {
			r.losses++
		}
		if e.Result.SalaryScore > 0 {
			r.salary = e.Result.SalaryScore
		}
		touched = append(touched, e.PlayerID)
	}

	for _, id := range touched {
		b.players[id] = struct{}{}
	}
	return touched, nil
}

// Close marks the season complete. Later events for it are rejected.
func (l *Ledger) Close(seasonID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.seasons[seasonID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSeason, seasonID)
	}
	b.closed = true
	return nil
}

// Closed reports whether the season has been closed.
func (l *Ledger) Closed(seasonID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.seasons[seasonID]
	return ok && b.closed
}

// Aggregate returns the league totals of a season. Complete is set once the
// season is closed.
func (l *Ledger) Aggregate(seasonID string) (calibration.SeasonAggregate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.seasons[seasonID]
	if !ok {
		return calibration.SeasonAggregate{}, fmt.Errorf("%w: %s", ErrUnknownSeason, seasonID)
	}
	agg := b.agg
	agg.Games = len(b.games)
	agg.Complete = b.closed
	return agg, nil
}

// Players lists every player seen in the season, sorted.
func (l *Ledger) Players(seasonID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.seasons[seasonID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(b.players))
	for id := range b.players {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Seasons lists every season id, sorted.
func (l *Ledger) Seasons() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.seasons))
	for id := range l.seasons {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Summary evaluates every engine that has data for the player against ctx.
func (l *Ledger) Summary(seasonID, playerID string, ctx *league.Context, seasonGames int) (Summary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.seasons[seasonID]
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s", ErrUnknownSeason, seasonID)
	}
	if _, ok := b.players[playerID]; !ok {
		return Summary{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return b.summarize(playerID, ctx, seasonGames, l.parks), nil
}

func (b *book) summarize(playerID string, ctx *league.Context, seasonGames int, parks *park.Deriver) Summary {
	s := Summary{PlayerID: playerID, SeasonID: b.id}

	if bt, ok := b.batting[playerID]; ok {
		in := war.BattingInput{Stats: bt.stats, Bats: bt.bats}
		if bt.homePark != "" {
			f := parks.Derive(bt.homePark)
			in.Park = &f
		}
		r := war.BattingWAR(in, ctx, seasonGames)
		s.Batting = &r
		s.WAR += r.WAR
	}
	if ps, ok := b.pitching[playerID]; ok {
		line := *ps
		// Untracked lines fall back to the leverage of the plays the pitcher was in.
		if acc, ok := b.faced[playerID]; ok && line.AverageLI <= 0 && acc.Count() > 0 {
			line.AverageLI = acc.Mean()
		}
		r := war.PitchingWAR(line, ctx, seasonGames)
		s.Pitching = &r
		s.WAR += r.WAR
	}
	if events, ok := b.fielding[playerID]; ok {
		r := war.FieldingWAR(war.FieldingInput{
			Position:    primaryPosition(events),
			GamesPlayed: gamesPlayed(events),
			Events:      events,
		}, ctx, seasonGames)
		s.Fielding = &r
		s.WAR += r.WAR
	}
	decisions, hasDecisions := b.decisions[playerID]
	rec, hasRecord := b.records[playerID]
	if hasDecisions || hasRecord {
		in := war.ManagerInput{Decisions: decisions}
		if rec != nil {
			in.Wins, in.Losses, in.SalaryScore = rec.wins, rec.losses, rec.salary
		}
		r := war.ManagerWAR(in, ctx, seasonGames)
		s.Manager = &r
		s.WAR += r.WAR
	}
	if r, ok := b.clutch.Rating(playerID); ok {
		s.Clutch = &ClutchSummary{
			Rating:     r,
			Tier:       r.Tier(),
			Confidence: r.Confidence(),
			MeanLI:     r.MeanLI(),
		}
	}
	s.Tier = league.WARTier(s.WAR, scheduleLength(ctx, seasonGames))
	return s
}

// primaryPosition is the position with the most chances; ties go to the
// earlier position in scorecard order.
func primaryPosition(events []war.FieldingEvent) position.Position {
	counts := make(map[position.Position]int, len(position.All))
	for _, e := range events {
		counts[e.Position]++
	}
	best, n := position.Position(""), 0
	for _, p := range position.All {
		if counts[p] > n {
			best, n = p, counts[p]
		}
	}
	return best
}

// gamesPlayed counts distinct games among the chances.
func gamesPlayed(events []war.FieldingEvent) int {
	games := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e.GameID != "" {
			games[e.GameID] = struct{}{}
		}
	}
	return len(games)
}
