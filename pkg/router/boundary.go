// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/luxfi/admarket/pkg/log"
)

// Crash screens.
const (
	MsgViewCrashed   = "Something went wrong"
	MsgViewRetry     = "An unexpected error occurred. Please try refreshing the page."
	MsgGlobalCrashed = "Application cannot continue"
	MsgGlobalReload  = "A critical error occurred. Please try reloading the application."
)

var ErrRouteCrashed = errors.New("view crashed")

// CrashReport is a recovered panic.
type CrashReport struct {
	Location Location
	Value    any
	Stack    []byte
	// Global is set when the panic escaped every view boundary; the only
	// way forward is a reload.
	Global bool
}

func (c *CrashReport) Error() string {
	if c.Global {
		return fmt.Sprintf("application crashed: %v", c.Value)
	}
	return fmt.Sprintf("view %s crashed: %v", c.Location.Path, c.Value)
}

func (c *CrashReport) Unwrap() error { return ErrRouteCrashed }

// Title and Hint are the texts of the crash screen.
func (c *CrashReport) Title() string {
	if c.Global {
		return MsgGlobalCrashed
	}
	return MsgViewCrashed
}

func (c *CrashReport) Hint() string {
	if c.Global {
		return MsgGlobalReload
	}
	return MsgViewRetry
}

// Guard runs one view step. A panic is logged, the router is reset to
// DefaultPath and the panic comes back as a *CrashReport. The step's own
// error is returned unchanged.
func (r *Router) Guard(step func() error) (err error) {
	loc := r.Current()
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		report := &CrashReport{Location: loc, Value: v, Stack: debug.Stack()}
		r.log.Error("view crashed",
			log.String("path", loc.Path),
			log.Any("panic", v),
		)
		r.Replace(DefaultPath)
		err = report
	}()
	return step()
}

// Boundary is the last resort around the whole program.
func Boundary(logger log.Logger, run func() error) (err error) {
	if logger == nil {
		logger = log.NoOp()
	}
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		logger.Error("application crashed", log.Any("panic", v))
		err = &CrashReport{Value: v, Stack: debug.Stack(), Global: true}
	}()
	return run()
}
