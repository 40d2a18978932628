package main

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
)

const sampleRate = beep.SampleRate(44100)

// cues plays short synthesized tones for session events.
type cues struct {
	volume float64
}

func newCues() (*cues, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	return &cues{volume: 0.25}, nil
}

func (c *cues) Close() {
	speaker.Clear()
	speaker.Close()
}

func (c *cues) Execute(frame *loop.Frame) {
	for _, e := range frame.Events {
		switch e := e.(type) {
		case session.PieceLocked:
			c.play(c.tone(196, 30*time.Millisecond))
		case session.RowsCleared:
			notes := make([]beep.Streamer, 0, len(e.Rows))
			for i := 0; i < len(e.Rows); i++ {
				notes = append(notes, c.tone(523.25*math.Pow(2, float64(i)/4), 60*time.Millisecond))
			}
			c.play(beep.Seq(notes...))
		case session.LevelUp:
			c.play(beep.Seq(
				c.tone(523.25, 70*time.Millisecond),
				c.tone(659.25, 70*time.Millisecond),
				c.tone(783.99, 70*time.Millisecond),
				c.tone(1046.5, 140*time.Millisecond),
			))
		case session.GameOver:
			c.play(beep.Seq(
				c.tone(392, 150*time.Millisecond),
				c.tone(311.13, 150*time.Millisecond),
				c.tone(261.63, 300*time.Millisecond),
			))
		case session.MoveRejected:
			c.play(c.tone(110, 20*time.Millisecond))
		}
	}
}

func (c *cues) play(s beep.Streamer) {
	speaker.Play(s)
}

func (c *cues) tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(sampleRate.N(d))
	}
	return beep.Take(sampleRate.N(d), &effects.Volume{
		Streamer: sine,
		Base:     2,
		Volume:   math.Log2(c.volume),
	})
}
