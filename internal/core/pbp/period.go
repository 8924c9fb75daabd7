package pbp

// PeriodTypeOf derives the period type. Only regular-season games go to a
// shootout after the first overtime; playoff overtimes repeat
func PeriodTypeOf(period int, game GameRef) PeriodType {
	switch {
	case period <= 3:
		return PeriodRegular
	case period == 4:
		return PeriodOvertime
	case game.RegularSeason():
		return PeriodShootout
	}
	return PeriodOvertime
}
