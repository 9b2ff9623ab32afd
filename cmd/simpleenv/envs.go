package main

import (
	"fmt"

	"github.com/samuelfneumann/simpleenv/environment"
)

type EnvsCmd struct{}

func (cmd *EnvsCmd) Run(g *Globals) error {
	fmt.Fprintln(g.Out, headerStyle.Render(fmt.Sprintf("%-16s %6s %7s %s",
		"id", "states", "actions", "terminal")))

	for _, id := range environment.Registered() {
		env, err := environment.Make(id, 0, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.Out, "%-16s %6d %7d %v\n", id, env.NumStates(),
			env.NumActions(), env.TerminalStates())
	}
	return nil
}
