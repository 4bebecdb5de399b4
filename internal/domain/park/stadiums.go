package park

import (
	"errors"
	"fmt"
)

// ErrInvalidStadium is returned by ValidateStadiums for unusable reference rows.
var ErrInvalidStadium = errors.New("invalid stadium reference data")

// DefaultStadiums is the built-in reference table of league parks.
var DefaultStadiums = []Stadium{
	{Name: "Apple Field", Left: 328, Center: 402, Right: 330, Walls: [3]WallHeight{WallMedium, WallMedium, WallMedium}, Games: 162},
	{Name: "Bingata Bowl", Left: 340, Center: 410, Right: 335, Walls: [3]WallHeight{WallHigh, WallMedium, WallMedium}, Games: 162},
	{Name: "Castillo Arena", Left: 315, Center: 395, Right: 320, Walls: [3]WallHeight{WallLow, WallMedium, WallLow}, Games: 120},
	{Name: "El Viejo Wall", Left: 310, Center: 390, Right: 345, Walls: [3]WallHeight{WallHigh, WallHigh, WallMedium}, Games: 162},
	{Name: "Emerald Diamond", Left: 335, Center: 405, Right: 325, Walls: [3]WallHeight{WallMedium, WallMedium, WallLow}, Games: 90},
	{Name: "Golden Egg", Left: 345, Center: 420, Right: 345, Walls: [3]WallHeight{WallHigh, WallHigh, WallHigh}, Games: 162},
	{Name: "Parque Jardineros", Left: 325, Center: 400, Right: 325, Walls: [3]WallHeight{WallMedium, WallLow, WallMedium}, Games: 60},
	{Name: "Sakura Hills", Left: 300, Center: 380, Right: 300, Walls: [3]WallHeight{WallMedium, WallMedium, WallMedium}, Games: 162},
	{Name: "Shaggy Hills", Left: 350, Center: 425, Right: 350, Walls: [3]WallHeight{WallMedium, WallHigh, WallMedium}, Games: 45},
	{Name: "Swagger Center", Left: 320, Center: 385, Right: 315, Walls: [3]WallHeight{WallLow, WallLow, WallLow}, Games: 162},
	{Name: "The Corn Maize", Left: 330, Center: 400, Right: 330, Walls: [3]WallHeight{WallMedium, WallMedium, WallMedium}, Games: 12},
	{Name: "The Wilderness", Left: 355, Center: 430, Right: 340, Walls: [3]WallHeight{WallMedium, WallMedium, WallHigh}, Games: 162},
}

// ValidateStadiums checks a reference table once at startup: every row needs a
// unique name, positive fence distances and known wall classes.
func ValidateStadiums(stadiums []Stadium) error {
	seen := make(map[string]struct{}, len(stadiums))
	for _, s := range stadiums {
		k := key(s.Name)
		if k == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidStadium)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: duplicate %q", ErrInvalidStadium, s.Name)
		}
		seen[k] = struct{}{}
		if s.Left <= 0 || s.Center <= 0 || s.Right <= 0 {
			return fmt.Errorf("%w: %q has non-positive fence distance", ErrInvalidStadium, s.Name)
		}
		for _, w := range s.Walls {
			if _, ok := w.adjustment(); !ok {
				return fmt.Errorf("%w: %q has unknown wall height %q", ErrInvalidStadium, s.Name, w)
			}
		}
	}
	return nil
}
