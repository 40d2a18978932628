package loop

import "github.com/plus3/blockfall/session"

// Commands buffers what listeners want done once the current tick is over.
// Input goes into the next tick; deferred functions run after the runner
// releases its lock, so they may call back into the Runner.
type Commands struct {
	input  []session.Command
	clears [][]int
	defers []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Submit queues input for the next tick.
func (c *Commands) Submit(cmds ...session.Command) {
	c.input = append(c.input, cmds...)
}

// CommitClear queues the collapse of rows announced by RowsPending.
func (c *Commands) CommitClear(rows []int) {
	c.clears = append(c.clears, rows)
}

// Defer queues fn to run after the tick.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// flush moves queued input and clears into r and returns the deferred
// functions. The caller holds r.mu.
func (c *Commands) flush(r *Runner) []func() {
	r.inbox = append(r.inbox, c.input...)
	r.clears = append(r.clears, c.clears...)
	defers := c.defers

	c.input = c.input[:0]
	c.clears = c.clears[:0]
	c.defers = nil
	return defers
}
