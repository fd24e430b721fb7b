package availability

// Decision is the outcome of comparing an observation against the prior state
type Decision struct {
	Prior  State `json:"prior"`
	Next   State `json:"next"`
	Notify bool  `json:"notify"`
}

// Decide applies the transition table.
//
//	no_room + unavailable -> no_room
//	no_room + available   -> room (notify)
//	room    + unavailable -> no_room
//	room    + available   -> room
func Decide(prior State, observed Signal) Decision {
	prior = ParseState(string(prior))
	next := observed.Observed()
	return Decision{
		Prior:  prior,
		Next:   next,
		Notify: prior == NoRoom && next == Room,
	}
}

// Appeared reports whether the decision is the no_room to room edge
func (d Decision) Appeared() bool {
	return d.Notify
}
