package main

import (
	"fmt"

	"github.com/fwojciec/kavach"
)

// Run executes the cases command.
func (c *CasesCmd) Run(deps *Dependencies) error {
	for _, name := range kavach.KnownCases {
		fmt.Fprintln(deps.Stdout, name)
	}
	return nil
}
