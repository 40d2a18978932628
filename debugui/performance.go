package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/loop"
)

// PerformancePanel plots frame times and shows the runner's tick and
// listener statistics.
type PerformancePanel struct {
	runner        *loop.Runner
	timer         *FrameTimer
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

// NewPerformancePanel keeps historyFrames frame times for the graph.
func NewPerformancePanel(runner *loop.Runner, historyFrames int) *PerformancePanel {
	historyFrames = max(historyFrames, 1)
	return &PerformancePanel{
		runner:        runner,
		timer:         NewFrameTimer(),
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// Render draws the panel. Call it inside an ImGui frame.
func (pp *PerformancePanel) Render() {
	deltaTime := pp.timer.GetDeltaTime()

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 440), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 260), imgui.CondOnce)

	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	pp.frameHistory[pp.frameIndex] = deltaTime * 1000.0
	pp.frameIndex = (pp.frameIndex + 1) % pp.historyFrames

	stats := pp.runner.Stats()

	imgui.Text(fmt.Sprintf("Ticks: %d", stats.Ticks))
	imgui.Text(fmt.Sprintf("Events: %d", stats.Events))
	imgui.Text(fmt.Sprintf("Tick: avg %s max %s", stats.AvgDuration, stats.MaxDuration))

	var avgFrameTime float32
	for _, ft := range pp.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(pp.historyFrames)
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &pp.frameHistory[0], int32(len(pp.frameHistory)))

	if imgui.TreeNodeStr("Listeners") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ListenerStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Listener")
			imgui.TableSetupColumn("Calls")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, l := range stats.Listeners {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(l.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", l.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(l.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(l.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// FrameTimer measures the wall time between successive renders.
type FrameTimer struct {
	lastFrameTime time.Time
}

// NewFrameTimer starts timing from now.
func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

// GetDeltaTime returns the seconds since the previous call.
func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
