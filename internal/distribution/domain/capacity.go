package domain

// CapacityLimit models an agency's plan limit as an explicit variant:
// unlimited (no plan cap) or bounded at n active leads. Modeling the null
// limit this way keeps eligibility logic exhaustive instead of scattering
// nil checks.
type CapacityLimit struct {
	bounded bool
	max     int
}

// Unlimited returns a capacity limit with no upper bound.
func Unlimited() CapacityLimit {
	return CapacityLimit{}
}

// Bounded returns a capacity limit capped at max active leads.
func Bounded(max int) CapacityLimit {
	return CapacityLimit{bounded: true, max: max}
}

// CapacityFromPlan converts a nullable plan limit into a CapacityLimit.
func CapacityFromPlan(maxLeads *int) CapacityLimit {
	if maxLeads == nil {
		return Unlimited()
	}
	return Bounded(*maxLeads)
}

// IsBounded reports whether the limit has an upper bound.
func (c CapacityLimit) IsBounded() bool {
	return c.bounded
}

// Max returns the upper bound and whether one exists.
func (c CapacityLimit) Max() (int, bool) {
	return c.max, c.bounded
}

// HasRoom reports whether an agency with the given active-lead count can
// accept one more assignment.
func (c CapacityLimit) HasRoom(activeLeads int) bool {
	if !c.bounded {
		return true
	}
	return activeLeads < c.max
}
