package debugtools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hopperlabs/gbx/internal/apu"
	"github.com/hopperlabs/gbx/internal/ppu"
	"github.com/hopperlabs/gbx/internal/ppu/lcd"
)

func TestPlotAudioTraceWritesPNG(t *testing.T) {
	samples := []apu.Sample{
		{Left: 100, Right: -100},
		{Left: 200, Right: -200},
		{Left: 0, Right: 0},
	}
	path := filepath.Join(t.TempDir(), "audio.png")

	if err := PlotAudioTrace(samples, path); err != nil {
		t.Fatalf("PlotAudioTrace: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestPlotScanlineTimingWritesPNG(t *testing.T) {
	trace := []ppu.ModeSample{
		{Line: 0, Mode: lcd.OAMScan, Frame: 1},
		{Line: 0, Mode: lcd.LCDTransfer, Frame: 1},
		{Line: 0, Mode: lcd.HBlank, Frame: 1},
	}
	path := filepath.Join(t.TempDir(), "scanline.png")

	if err := PlotScanlineTiming(trace, path); err != nil {
		t.Fatalf("PlotScanlineTiming: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("%s is empty", path)
	}
}
