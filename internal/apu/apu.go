// Package apu implements the Game Boy's four-channel sound generator:
// two square channels (one with frequency sweep), a programmable
// waveform channel, and a noise channel driven by a 15-bit LFSR. It
// mixes their output into a stereo sample stream at 44.1kHz and hands
// samples to a caller-supplied callback; it owns no audio device.
package apu

import "github.com/hopperlabs/gbx/internal/types"

const sampleRate = 44100

// frameSequencerPeriod is the CPU-oscillator-cycle period of the
// 512Hz frame sequencer (4194304 / 512).
const frameSequencerPeriod = 8192

// Sample is one stereo output sample, in the engine's internal
// [-1,1]-derived signed 16-bit range.
type Sample struct {
	Left, Right int16
}

// APU is the Game Boy sound generator.
type APU struct {
	enabled bool

	nr10, nr11, nr12, nr13, nr14 uint8
	nr21, nr22, nr23, nr24       uint8
	nr30, nr31, nr32, nr33, nr34 uint8
	nr41, nr42, nr43, nr44       uint8
	nr50, nr51                   uint8

	waveRAM [16]uint8

	ch1 square
	ch2 square
	ch3 wave
	ch4 noise

	frameSeqTimer int32
	frameSeqStep  uint8

	sampleTimer int64

	sampleFunc func(Sample)
}

// New constructs a powered-on APU with its channels silent.
func New() *APU {
	a := &APU{enabled: true, sampleTimer: 1 << 22}
	a.ch3.ram = &a.waveRAM
	return a
}

// SetSampleFunc registers the callback invoked once per generated
// stereo sample, roughly 44100 times per second of emulated time.
func (a *APU) SetSampleFunc(f func(Sample)) { a.sampleFunc = f }

// Step advances the APU by cycles CPU oscillator cycles.
func (a *APU) Step(cycles uint16) {
	if a.enabled {
		for i := uint16(0); i < cycles; i++ {
			a.ch1.tick()
			a.ch2.tick()
			a.ch3.tick()
			a.ch4.tick()
			if a.frameSeqTimer--; a.frameSeqTimer <= 0 {
				a.frameSeqTimer += frameSequencerPeriod
				a.stepFrameSequencer()
			}
		}
	}
	a.sampleTimer -= int64(cycles) * sampleRate
	for a.sampleTimer <= 0 {
		a.sampleTimer += 1 << 22
		a.emitSample()
	}
}

// stepFrameSequencer advances the classic 8-step sequence: length
// counters clock on steps 0,2,4,6; the sweep unit on steps 2,6;
// envelope (volume) on step 7.
func (a *APU) stepFrameSequencer() {
	switch a.frameSeqStep {
	case 0:
		a.clockLength()
	case 2:
		a.clockLength()
		a.ch1.sweepClock()
	case 4:
		a.clockLength()
	case 6:
		a.clockLength()
		a.ch1.sweepClock()
	case 7:
		a.ch1.volumeStep()
		a.ch2.volumeStep()
		a.ch4.volumeStep()
	}
	a.frameSeqStep = (a.frameSeqStep + 1) & 7
}

func (a *APU) clockLength() {
	a.ch1.lengthStep()
	a.ch2.lengthStep()
	a.ch3.lengthStep()
	a.ch4.lengthStep()
}

func (a *APU) emitSample() {
	if !a.enabled {
		if a.sampleFunc != nil {
			a.sampleFunc(Sample{})
		}
		return
	}
	levels := [4]float64{a.ch1.level(), a.ch2.level(), a.ch3.level(), a.ch4.level()}
	var left, right float64
	for i, lv := range levels {
		if a.nr51&(1<<(4+uint(i))) != 0 {
			left += lv
		}
		if a.nr51&(1<<uint(i)) != 0 {
			right += lv
		}
	}
	leftVol := float64((a.nr50>>4)&0x07) / 7
	rightVol := float64(a.nr50&0x07) / 7
	left = left / 4 * leftVol
	right = right / 4 * rightVol
	if a.sampleFunc != nil {
		a.sampleFunc(Sample{Left: toI16(left), Right: toI16(right)})
	}
}

func toI16(v float64) int16 {
	s := v * 32767
	if s > 32767 {
		s = 32767
	} else if s < -32768 {
		s = -32768
	}
	return int16(s)
}

// channelStatus reports each channel's NR52 bit 0-3 enabled flag.
func (a *APU) channelStatus() uint8 {
	var v uint8
	if a.ch1.enabled {
		v |= 0x01
	}
	if a.ch2.enabled {
		v |= 0x02
	}
	if a.ch3.enabled {
		v |= 0x04
	}
	if a.ch4.enabled {
		v |= 0x08
	}
	return v
}

var _ types.Stater = (*APU)(nil)
