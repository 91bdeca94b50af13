// Package main provides the entry point for the budget-buddy CLI application.
package main

import (
	"fmt"
	"os"

	"fjacquet/budget-buddy/cmd/budget"
	"fjacquet/budget-buddy/cmd/categorize"
	"fjacquet/budget-buddy/cmd/root"
	"fjacquet/budget-buddy/cmd/run"
	"fjacquet/budget-buddy/cmd/status"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(run.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(status.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
