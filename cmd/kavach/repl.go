package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fwojciec/kavach"
	"github.com/fwojciec/kavach/console"
)

// Run executes the console command. It reads submissions from stdin until
// EOF or "quit".
func (c *ConsoleCmd) Run(deps *Dependencies) error {
	r := &repl{
		in:  bufio.NewScanner(deps.Stdin),
		out: deps.Stdout,
		err: deps.Stderr,
	}

	fmt.Fprintln(r.out, "Kavach-Vani")
	fmt.Fprintln(r.out, "Explainable Legal AI for Indian Judgments")
	fmt.Fprintln(r.out, `Type "quit" to exit.`)

	for {
		scope, ok := r.readScope()
		if !ok {
			return r.in.Err()
		}

		question, ok := r.prompt("\nAsk your question (e.g. Why was the employee dismissed?)\n> ")
		if !ok {
			return r.in.Err()
		}

		result := deps.Console.Submit(deps.Ctx, question, scope, func(msg string) {
			fmt.Fprintln(r.err, msg)
		})

		switch result.State {
		case console.StateRendered:
			fmt.Fprintf(r.out, "\n%s\n\n", result.Report())
		case console.StateFailed:
			fmt.Fprintln(r.err, result.ErrorMessage())
		default:
			fmt.Fprintln(r.err, result.Warning)
		}

		if deps.Ctx.Err() != nil {
			return nil
		}
	}
}

type repl struct {
	in  *bufio.Scanner
	out io.Writer
	err io.Writer
}

// prompt writes label and reads one line. It returns false on EOF or a quit
// command.
func (r *repl) prompt(label string) (string, bool) {
	fmt.Fprint(r.out, label)
	if !r.in.Scan() {
		return "", false
	}
	line := r.in.Text()
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit":
		return "", false
	}
	return line, true
}

func (r *repl) readScope() (kavach.Scope, bool) {
	for {
		fmt.Fprintln(r.out, "\nCase Context")
		fmt.Fprintln(r.out, "  1) General analysis (across cases)")
		fmt.Fprintln(r.out, "  2) Analyze a specific case")
		choice, ok := r.prompt("Choose analysis scope [1]: ")
		if !ok {
			return kavach.Scope{}, false
		}

		switch strings.TrimSpace(choice) {
		case "", "1":
			return kavach.GeneralScope(), true
		case "2":
			return r.readCase()
		default:
			fmt.Fprintln(r.err, "Please choose 1 or 2.")
		}
	}
}

func (r *repl) readCase() (kavach.Scope, bool) {
	for {
		fmt.Fprintln(r.out, "\nSelect a case from the knowledge base")
		for i, name := range kavach.KnownCases {
			fmt.Fprintf(r.out, "  %d) %s\n", i+1, name)
		}
		choice, ok := r.prompt("Case [1]: ")
		if !ok {
			return kavach.Scope{}, false
		}

		n := 1
		if s := strings.TrimSpace(choice); s != "" {
			var err error
			if n, err = strconv.Atoi(s); err != nil {
				n = 0
			}
		}
		if n < 1 || n > len(kavach.KnownCases) {
			fmt.Fprintf(r.err, "Please choose a number between 1 and %d.\n", len(kavach.KnownCases))
			continue
		}

		scope, err := kavach.CaseScope(kavach.KnownCases[n-1])
		if err != nil {
			fmt.Fprintln(r.err, kavach.ErrorMessage(err))
			return kavach.Scope{}, false
		}
		return scope, true
	}
}
