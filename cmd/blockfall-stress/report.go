package main

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Sessions   int
	TickRate   int
	DeferClear bool

	// Results
	Workers        []WorkerResult
	TotalTicks     int64
	TotalLines     int
	TotalGames     int
	TotalTime      time.Duration
	GameTime       time.Duration
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type WorkerResult struct {
	ID       int
	Seed     uint64
	Ticks    int64
	Events   int64
	Lines    int
	MaxLevel int
	Games    int
	Placed   int
	Holds    int
	Stuck    int
	AvgTick  time.Duration
	MaxTick  time.Duration
}

func (r *Report) Finalize() {
	r.TotalTicks = 0
	r.TotalLines = 0
	r.TotalGames = 0
	for _, w := range r.Workers {
		r.TotalTicks += w.Ticks
		r.TotalLines += w.Lines
		r.TotalGames += w.Games
	}
	if r.TickRate > 0 {
		r.GameTime = time.Duration(r.TotalTicks) * time.Second / time.Duration(r.TickRate)
	}
}

// TicksPerSecond is the aggregate wall-clock tick throughput.
func (r *Report) TicksPerSecond() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.TotalTicks) / r.TotalTime.Seconds()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Parallel Sessions:** {{.Sessions}}
- **Tick Rate:** {{.TickRate}}/s of game time
- **Deferred Clears:** {{.DeferClear}}

## Results
- **Total Ticks:** {{comma .TotalTicks}} ({{ftoa .TicksPerSecond}} ticks/s)
- **Game Time Simulated:** {{.GameTime}}
- **Lines Cleared:** {{comma .TotalLines}}
- **Games Ended:** {{.TotalGames}}
- **Total Test Time:** {{.TotalTime}}

## Memory Usage
- Heap Alloc:     {{bytes .MemStatsStart.HeapAlloc}} (start) -> {{bytes .MemStatsEnd.HeapAlloc}} (end)
- Total Alloc:    {{bytes .MemStatsStart.TotalAlloc}} (start) -> {{bytes .MemStatsEnd.TotalAlloc}} (end) -> delta: {{bytes (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}}
- Sys Memory:     {{bytes .MemStatsStart.Sys}} (start) -> {{bytes .MemStatsEnd.Sys}} (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
## Sessions
`

	fm := template.FuncMap{
		"bytes": humanize.IBytes,
		"comma": func(v any) string {
			switch val := v.(type) {
			case int:
				return humanize.Comma(int64(val))
			case int64:
				return humanize.Comma(val)
			default:
				return fmt.Sprint(v)
			}
		},
		"ftoa": func(f float64) string {
			return humanize.CommafWithDigits(f, 0)
		},
		"bsub": func(a, b uint64) uint64 {
			if a < b {
				return 0
			}
			return a - b
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, r); err != nil {
		return err
	}

	r.writeWorkers(w)
	return nil
}

func (r *Report) writeWorkers(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"session", "seed", "ticks", "lines", "max level", "games", "placed", "holds", "stuck", "avg tick", "max tick"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	data := make([][]string, 0, len(r.Workers))
	for _, wr := range r.Workers {
		data = append(data, []string{
			strconv.Itoa(wr.ID),
			strconv.FormatUint(wr.Seed, 10),
			humanize.Comma(wr.Ticks),
			strconv.Itoa(wr.Lines),
			strconv.Itoa(max(wr.MaxLevel, 1)),
			strconv.Itoa(wr.Games),
			strconv.Itoa(wr.Placed),
			strconv.Itoa(wr.Holds),
			strconv.Itoa(wr.Stuck),
			wr.AvgTick.String(),
			wr.MaxTick.String(),
		})
	}
	table.AppendBulk(data)
	table.Render()
}
