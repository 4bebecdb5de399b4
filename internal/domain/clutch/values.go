package clutch

import "fmt"

// Base run-value tables by role. Results missing from a role's table are worth zero to that role.
var (
	batterValues = map[Result]float64{
		HomeRun:        1.0,
		Triple:         0.8,
		Double:         0.6,
		Single:         0.4,
		Walk:           0.3,
		HitByPitch:     0.3,
		SacrificeFly:   0.3,
		ReachedOnError: 0.1,
		Strikeout:      -0.4,
		GroundOut:      -0.25,
		FlyOut:         -0.25,
		LineOut:        -0.25,
		DoublePlay:     -0.7,
	}
	pitcherValues = map[Result]float64{
		Strikeout:    0.4,
		DoublePlay:   0.5,
		GroundOut:    0.2,
		FlyOut:       0.2,
		LineOut:      0.2,
		SacrificeFly: -0.1,
		Walk:         -0.3,
		HitByPitch:   -0.3,
		Single:       -0.4,
		Double:       -0.6,
		Triple:       -0.8,
		HomeRun:      -1.0,
	}
	fielderValues = map[Result]float64{
		DoublePlay:     0.4,
		GroundOut:      0.1,
		FlyOut:         0.1,
		LineOut:        0.1,
		SacrificeFly:   0.05,
		ReachedOnError: -0.5,
	}
	catcherValues = map[Result]float64{
		Strikeout:      0.1,
		CaughtStealing: 0.4,
		StolenBase:     -0.2,
	}
	runnerValues = map[Result]float64{
		StolenBase:     0.3,
		CaughtStealing: -0.5,
	}
)

// EventValue returns the base value of result to a participant in role,
// adjusted for contact quality. Weak-contact hits and hard-hit outs are partly luck.
func EventValue(role Role, result Result, contact Contact) (float64, error) {
	var table map[Result]float64
	switch role {
	case RoleBatter:
		table = batterValues
	case RolePitcher:
		table = pitcherValues
	case RoleFielder:
		table = fielderValues
	case RoleCatcher:
		table = catcherValues
	case RoleRunner:
		table = runnerValues
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	v := table[result]

	switch role {
	case RoleBatter:
		switch {
		case result.hit() && contact == ContactWeak:
			v *= 0.75
		case result.battedOut() && contact == ContactHard:
			v *= 0.5
		}
	case RolePitcher:
		switch {
		case result.hit() && contact == ContactWeak:
			v *= 0.5
		case result.battedOut() && contact == ContactHard:
			v *= 0.75
		}
	case RoleFielder, RoleCatcher, RoleRunner:
	}
	return v, nil
}
