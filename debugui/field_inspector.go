package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/playfield"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
)

// FieldInspector lists the rows of the field with their fill count and
// looks up where a block id currently sits.
type FieldInspector struct {
	runner    *loop.Runner
	lookupID  int32
	onlyEmpty bool
}

// NewFieldInspector reads the field through runner.View.
func NewFieldInspector(runner *loop.Runner) *FieldInspector {
	return &FieldInspector{runner: runner}
}

type rowInfo struct {
	row    int
	fill   int
	blocks []playfield.BlockID
}

// Render draws the inspector window.
func (fi *FieldInspector) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(340, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 420), imgui.CondOnce)

	if !imgui.BeginV("Field", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	var (
		width    int
		rows     []rowInfo
		found    bool
		location shape.Cell
	)
	fi.runner.View(func(s *session.Session) {
		field := s.Field()
		width = field.Width()
		for row := field.Height() - 1; row >= 0; row-- {
			info := rowInfo{row: row, fill: field.RowFill(row)}
			if info.fill == 0 && !fi.onlyEmpty {
				continue
			}
			for col := 0; col < width; col++ {
				info.blocks = append(info.blocks, field.At(shape.Cell{Col: col, Row: row}))
			}
			rows = append(rows, info)
		}
		if fi.lookupID > 0 {
			location, found = field.Locate(playfield.BlockID(fi.lookupID))
		}
	})

	imgui.InputInt("Block id", &fi.lookupID)
	if fi.lookupID > 0 {
		if found {
			imgui.Text(fmt.Sprintf("Block %d at %s", fi.lookupID, location))
		} else {
			imgui.Text(fmt.Sprintf("Block %d is not on the field", fi.lookupID))
		}
	}
	imgui.Checkbox("Show empty rows", &fi.onlyEmpty)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("RowTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Row")
		imgui.TableSetupColumn("Fill")
		imgui.TableSetupColumn("Blocks")
		imgui.TableHeadersRow()

		for _, info := range rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.row))
			imgui.TableNextColumn()
			imgui.ProgressBarV(float32(info.fill)/float32(width), imgui.NewVec2(-1, 0), fmt.Sprintf("%d/%d", info.fill, width))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%v", info.blocks))
		}

		imgui.EndTable()
	}

	imgui.End()
}
