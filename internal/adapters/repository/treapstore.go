package repository

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/sabr/pkg/metrics"
)

// Treap-based, in-memory Store.
//
// Ordering: WAR DESC, then playerID ASC. "less" means ranks earlier, so an
// in-order walk yields the leaderboard best to worst. Node sizes make rank an
// O(log n) order-statistic query.

// warScale is the fixed-point resolution WAR is compared at.
const warScale = 1_000_000_000

type warFP int64

func toFixedPoint(x float64) warFP {
	scaled := math.Round(x * warScale)
	switch {
	case scaled >= math.MaxInt64:
		return warFP(math.MaxInt64)
	case scaled <= math.MinInt64:
		return warFP(math.MinInt64)
	}
	return warFP(scaled)
}

func toFloat(x warFP) float64 {
	return float64(x) / warScale
}

type node struct {
	id    string
	war   warFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func less(aWAR warFP, aID string, bWAR warFP, bID string) bool {
	if aWAR != bWAR {
		return aWAR > bWAR
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, war warFP, prio uint64) *node {
	if n == nil {
		return &node{id: id, war: war, prio: prio, size: 1}
	}
	if less(war, id, n.war, n.id) {
		n.left = insert(n.left, id, war, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, war, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, war warFP) *node {
	if n == nil {
		return nil
	}
	switch {
	case war == n.war && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, war)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, war)
		}
	case less(war, id, n.war, n.id):
		n.left = deleteNode(n.left, id, war)
	default:
		n.right = deleteNode(n.right, id, war)
	}
	fix(n)
	return n
}

// countAbove returns how many nodes carry strictly more WAR than war.
func countAbove(n *node, war warFP) int {
	c := 0
	for n != nil {
		if n.war > war {
			c += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return c
}

// collectTopN appends up to limit nodes in rank order.
func collectTopN(n *node, limit int, out *[]*node) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n)
	}
	collectTopN(n.right, limit, out)
}

// board is one season's leaderboard.
type board struct {
	root *node
	byID map[string]warFP
}

// TreapStore implements Store with one treap per season.
type TreapStore struct {
	mu     sync.RWMutex
	boards map[string]*board
	rng    *rand.Rand
}

// NewTreapStore constructs an empty store.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		boards: make(map[string]*board),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert implements Store in O(log n) expected time.
func (s *TreapStore) Upsert(_ context.Context, seasonID, playerID string, war float64) (bool, error) {
	if math.IsNaN(war) || math.IsInf(war, 0) {
		metrics.RecordErrorByComponent("repository", "invalid_war")
		return false, ErrInvalidWAR
	}
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	fp := toFixedPoint(war)

	s.mu.Lock()
	b, ok := s.boards[seasonID]
	if !ok {
		b = &board{byID: make(map[string]warFP)}
		s.boards[seasonID] = b
	}
	old, exists := b.byID[playerID]
	if exists && old == fp {
		s.mu.Unlock()
		return false, nil
	}
	if exists {
		b.root = deleteNode(b.root, playerID, old)
	}
	b.byID[playerID] = fp
	b.root = insert(b.root, playerID, fp, s.rng.Uint64())
	total := s.totalLocked()
	s.mu.Unlock()

	metrics.RecordLeaderboardUpdate()
	if !exists {
		metrics.UpdateRepositoryRecordsTotal(total)
	}
	return true, nil
}

// Rank implements Store. Players tied on WAR share a rank and the next rank is skipped.
func (s *TreapStore) Rank(_ context.Context, seasonID, playerID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[seasonID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	fp, ok := b.byID[playerID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	return Entry{
		Rank:     countAbove(b.root, fp) + 1,
		PlayerID: playerID,
		SeasonID: seasonID,
		WAR:      toFloat(fp),
	}, nil
}

// TopN implements Store.
func (s *TreapStore) TopN(_ context.Context, seasonID string, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[seasonID]
	if !ok {
		return []Entry{}, nil
	}
	nodes := make([]*node, 0, min(n, len(b.byID)))
	collectTopN(b.root, n, &nodes)

	out := make([]Entry, len(nodes))
	for i, nd := range nodes {
		rank := i + 1
		if i > 0 && nd.war == nodes[i-1].war {
			rank = out[i-1].Rank
		}
		out[i] = Entry{Rank: rank, PlayerID: nd.id, SeasonID: seasonID, WAR: toFloat(nd.war)}
	}
	return out, nil
}

// Count implements Store.
func (s *TreapStore) Count(_ context.Context, seasonID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.boards[seasonID]; ok {
		return len(b.byID)
	}
	return 0
}

func (s *TreapStore) totalLocked() int {
	n := 0
	for _, b := range s.boards {
		n += len(b.byID)
	}
	return n
}
