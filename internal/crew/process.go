// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package crew

import "context"

// Process is the execution discipline applied to a crew's task list.
type Process interface {
	Name() string
	Run(ctx context.Context, c *Crew, run *Run) error
}

// Sequential executes tasks strictly in declaration order, one at a time.
// A task failure stops the run; later tasks never start.
type Sequential struct{}

// Name returns the process name.
func (Sequential) Name() string { return "sequential" }

// Run executes every task in order.
func (Sequential) Run(ctx context.Context, c *Crew, run *Run) error {
	for i := range c.tasks {
		if err := c.executeTask(ctx, run, i); err != nil {
			return err
		}
	}
	return nil
}
