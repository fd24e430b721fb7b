// Command room-watch checks the housing office listings page for room vacancies and
// emails the operator when one appears.
package main

import "github.com/pfrederiksen/room-watch/internal/cli"

func main() {
	cli.Execute()
}
