package leverage

// Accumulator tracks the mean LI a player has faced, such as a reliever's
// entry leverage across a season (gmLI).
type Accumulator struct {
	total float64
	count int
}

// Add records one situation.
func (a *Accumulator) Add(li float64) {
	a.total += li
	a.count++
}

// Count is the number of recorded situations.
func (a *Accumulator) Count() int { return a.count }

// Mean returns the average LI, or 1.0 when nothing was recorded.
func (a *Accumulator) Mean() float64 {
	if a.count == 0 {
		return 1.0
	}
	return a.total / float64(a.count)
}

// Role is a pitcher's bullpen role for gmLI estimation.
type Role string

// Pitching roles.
const (
	RoleStarter Role = "STARTER"
	RoleCloser  Role = "CLOSER"
	RoleSetup   Role = "SETUP"
	RoleMiddle  Role = "MIDDLE"
	RoleLong    Role = "LONG"
	RoleMopUp   Role = "MOP_UP"
)

// Usage-rate boundaries for BullpenRole.
const (
	closerSaveRate = 0.3
	setupHoldRate  = 0.3
	middleRate     = 0.1
)

// BullpenRole infers a pitcher's role from relief appearances and the share of
// them that ended in a save or a hold.
func BullpenRole(relief, saves, holds int) Role {
	if relief <= 0 {
		return RoleStarter
	}
	saveRate := float64(saves) / float64(relief)
	holdRate := float64(holds) / float64(relief)
	switch {
	case saveRate > closerSaveRate:
		return RoleCloser
	case holdRate > setupHoldRate:
		return RoleSetup
	case saveRate > middleRate || holdRate > middleRate:
		return RoleMiddle
	}
	return RoleLong
}

// EstimateGmLI estimates a pitcher's average entry leverage from role and usage
// when situation-level data is unavailable.
func EstimateGmLI(role Role, saves, holds int) float64 {
	switch role {
	case RoleStarter:
		return 1.0
	case RoleCloser:
		switch {
		case saves >= 20:
			return 1.95
		case saves >= 10:
			return 1.85
		}
		return 1.75
	case RoleSetup:
		return min(1.6, 1.40+0.02*float64(holds))
	case RoleMiddle:
		return 1.1
	case RoleLong:
		return 0.9
	case RoleMopUp:
		return 0.5
	}
	return 1.0
}
