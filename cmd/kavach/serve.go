package main

import (
	"fmt"
)

// Run executes the serve command. It blocks until the context is done.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if err := deps.Server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Serving query console at %s\n", deps.Server.URL())
	deps.Logger.Info("serving", "addr", deps.Server.Addr, "endpoint", deps.Config.Backend.Endpoint)

	<-deps.Ctx.Done()

	deps.Logger.Info("shutting down")
	return deps.Server.Close()
}
