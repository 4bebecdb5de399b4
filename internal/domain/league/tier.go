package league

// Tier labels a season WAR after scaling it to a full-season equivalent.
type Tier string

// WAR tiers from best to worst.
const (
	TierMVP              Tier = "MVP"
	TierSuperstar        Tier = "Superstar"
	TierAllStar          Tier = "All-Star"
	TierAboveAverage     Tier = "Above Average"
	TierStarter          Tier = "Starter"
	TierRolePlayer       Tier = "Role Player"
	TierReplacement      Tier = "Replacement"
	TierBelowReplacement Tier = "Below Replacement"
)

var warTiers = []struct {
	min  float64
	tier Tier
}{
	{8, TierMVP},
	{6, TierSuperstar},
	{4, TierAllStar},
	{3, TierAboveAverage},
	{2, TierStarter},
	{1, TierRolePlayer},
	{0, TierReplacement},
}

// WARTier scales war from a seasonGames schedule to 162 games and labels it.
func WARTier(war float64, seasonGames int) Tier {
	if seasonGames <= 0 {
		seasonGames = FullSeasonGames
	}
	scaled := war * FullSeasonGames / float64(seasonGames)
	for _, t := range warTiers {
		if scaled >= t.min {
			return t.tier
		}
	}
	return TierBelowReplacement
}
