package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
)

// SessionPanel shows counters, the active piece, the queue and a log of
// recent events, with buttons that submit commands.
type SessionPanel struct {
	runner *loop.Runner
	log    *EventLog
	snap   session.Snapshot
}

// NewSessionPanel keeps the last logSize events.
func NewSessionPanel(runner *loop.Runner, logSize int) *SessionPanel {
	return &SessionPanel{
		runner: runner,
		log:    NewEventLog(logSize),
	}
}

// Record captures the frame's events and a snapshot for the next render.
func (p *SessionPanel) Record(frame *loop.Frame) {
	for _, e := range frame.Events {
		p.log.Add(e)
	}
	p.snap = frame.Session.Snapshot()
}

// Render draws the panel from the last recorded snapshot.
func (p *SessionPanel) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 420), imgui.CondOnce)

	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	s := p.snap
	imgui.Text(fmt.Sprintf("State: %s", s.State))
	imgui.Text(fmt.Sprintf("Lines: %d  Level: %d", s.Lines, s.Level))
	imgui.Text(fmt.Sprintf("Blocks: %d", s.Blocks))
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Active: %s (%s)", s.Active, s.PieceState))
	imgui.Text(fmt.Sprintf("Anchor: %s  Rotation: %d", s.Anchor, s.Rotation))
	imgui.Text(fmt.Sprintf("Held: %s  Can hold: %t", s.Held, s.CanHold))
	imgui.Text(fmt.Sprintf("Next: %v", s.Preview))
	imgui.Text(fmt.Sprintf("Soft drop: %t", s.SoftDrop))
	if len(s.Pending) > 0 {
		imgui.Text(fmt.Sprintf("Pending rows: %v", s.Pending))
		if imgui.Button("Commit clear") {
			p.runner.CommitClear(s.Pending)
		}
	}

	imgui.Separator()
	if imgui.Button("Restart") {
		p.runner.Submit(session.Restart)
	}
	imgui.SameLine()
	if imgui.Button("Hard drop") {
		p.runner.Submit(session.HardDrop)
	}
	imgui.SameLine()
	imgui.Checkbox("Hide falls", &p.log.Quiet)

	if imgui.TreeNodeStr("Events") {
		lines := p.log.Lines()
		for i := len(lines) - 1; i >= 0; i-- {
			imgui.BulletText(lines[i])
		}
		imgui.TreePop()
	}

	imgui.End()
}
