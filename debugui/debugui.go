// Package debugui provides Dear ImGui panels for inspecting a running
// session. Panels are collected in an Overlay that is subscribed to a
// loop.Runner; render functions are deferred to the end of each tick so they
// run between the backend's BeginFrame and EndFrame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/loop"
)

// Item holds a Dear ImGui render function.
type Item struct {
	Render func()
}

// InputState tracks whether ImGui is consuming mouse or keyboard input.
// Front-ends should skip their own input handling while it does.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay is a loop.Listener that queues every item's render function and
// feeds tick events to the panels that record them.
type Overlay struct {
	Items      []Item
	Recorders  []Recorder
	InputState InputState
	Hidden     bool
}

// Recorder is a panel that keeps state across ticks.
type Recorder interface {
	Record(frame *loop.Frame)
}

// Add appends a panel. Panels that implement Recorder are also fed every
// tick.
func (o *Overlay) Add(render func(), recorder Recorder) {
	o.Items = append(o.Items, Item{Render: render})
	if recorder != nil {
		o.Recorders = append(o.Recorders, recorder)
	}
}

// Execute updates input state and queues all render functions.
func (o *Overlay) Execute(frame *loop.Frame) {
	for _, r := range o.Recorders {
		r.Record(frame)
	}
	if o.Hidden {
		o.InputState = InputState{}
		return
	}

	o.InputState.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	o.InputState.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for _, item := range o.Items {
		frame.Commands.Defer(item.Render)
	}
}
