// Package availability defines the persisted vacancy state and the transition table.
//
// A run observes a Signal (vacancies present or not) and combines it with the prior
// persisted State to decide the next State and whether the operator is notified. Only
// the no_room to room edge produces a notification.
package availability
