// Package window decides whether a run falls inside a recurring release window.
//
// The housing office publishes offers only during fixed weekly spans. A Gate holds
// those spans together with the timezone they are defined in and answers IsOpen for
// any instant.
package window
