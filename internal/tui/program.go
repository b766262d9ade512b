// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/router"
)

// Run drives model until it quits. Panics reach the global boundary instead
// of bubbletea's own handler; on one the terminal is released and the reload
// prompt is written to prompt.
func Run(model tea.Model, logger log.Logger, prompt io.Writer, opts ...tea.ProgramOption) error {
	opts = append(opts, tea.WithoutCatchPanics())
	program := tea.NewProgram(model, opts...)

	err := router.Boundary(logger, func() error {
		_, err := program.Run()
		return err
	})

	var report *router.CrashReport
	if errors.As(err, &report) && report.Global {
		_ = program.ReleaseTerminal()
		fmt.Fprintf(prompt, "%s\n%s\n", report.Title(), report.Hint())
	}
	return err
}
