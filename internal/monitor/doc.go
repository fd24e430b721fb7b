// Package monitor runs one vacancy check end to end.
//
// A run is: window gate, state lock, read prior state, fetch, classify, decide,
// notify on the no_room to room edge, write the new state. Routine failures (site
// hiccups, layout changes, mail outages) end the run with a logged outcome and a nil
// error; only state store failures are returned, since those need an operator.
package monitor
