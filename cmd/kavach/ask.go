package main

import (
	"fmt"

	"github.com/fwojciec/kavach"
	"github.com/fwojciec/kavach/console"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	scope := kavach.GeneralScope()
	if c.Case != "" {
		var err error
		if scope, err = kavach.CaseScope(c.Case); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s Use 'kavach cases' to see available cases.\n", kavach.ErrorMessage(err))
			return err
		}
	}

	result := deps.Console.Submit(deps.Ctx, c.Question, scope, func(msg string) {
		fmt.Fprintln(deps.Stderr, msg)
	})

	switch result.State {
	case console.StateRendered:
		fmt.Fprintln(deps.Stdout, result.Report())
		return nil
	case console.StateFailed:
		fmt.Fprintf(deps.Stderr, "error: %s\n", result.ErrorMessage())
		return result.Err
	default:
		fmt.Fprintf(deps.Stderr, "warning: %s\n", result.Warning)
		return kavach.Errorf(kavach.EINVALID, "%s", result.Warning)
	}
}
