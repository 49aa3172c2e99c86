// Command gbx is a minimal SDL2 front-end for the engine: it loads a
// ROM, pumps gameboy.Core.EmulateFrame, blits the scanline callback's
// pixels to a window scaled to the display size, queues audio samples
// to an SDL audio device, and maps keyboard scancodes to joypad
// buttons. It exists only to exercise the engine's external
// interfaces and is not itself part of the engine.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"golang.design/x/clipboard"
	"golang.org/x/image/draw"

	"github.com/hopperlabs/gbx/internal/apu"
	"github.com/hopperlabs/gbx/internal/debugtools"
	"github.com/hopperlabs/gbx/internal/gameboy"
	"github.com/hopperlabs/gbx/internal/joypad"
	"github.com/hopperlabs/gbx/internal/ppu"
	"github.com/hopperlabs/gbx/internal/romsource"
	"github.com/hopperlabs/gbx/pkg/gblog"
)

const (
	windowScale = 4
	windowW     = ppu.ScreenWidth * windowScale
	windowH     = ppu.ScreenHeight * windowScale

	sampleRate = 44100
)

var keymap = map[sdl.Scancode]joypad.Button{
	sdl.SCANCODE_RIGHT:     joypad.Right,
	sdl.SCANCODE_LEFT:      joypad.Left,
	sdl.SCANCODE_UP:        joypad.Up,
	sdl.SCANCODE_DOWN:      joypad.Down,
	sdl.SCANCODE_Z:         joypad.A,
	sdl.SCANCODE_X:         joypad.B,
	sdl.SCANCODE_BACKSPACE: joypad.Select,
	sdl.SCANCODE_RETURN:    joypad.Start,
}

func main() {
	romPath := flag.String("rom", "", "path to a .gb/.gbc ROM, or a .7z archive containing one")
	bootPath := flag.String("boot", "", "optional path to a boot ROM image")
	tracePath := flag.String("trace", "", "if set, write an audio trace PNG to this path on exit")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: gbx -rom path/to/game.gb")
		os.Exit(2)
	}

	if err := run(*romPath, *bootPath, *tracePath, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "gbx:", err)
		os.Exit(1)
	}
}

func run(romPath, bootPath, tracePath string, debug bool) error {
	log := gblog.Default()
	if debug {
		log = gblog.New(os.Stderr, logrus.DebugLevel)
	}

	rom, err := romsource.Load(romPath)
	if err != nil {
		return fmt.Errorf("load rom: %w", err)
	}
	log.Infof("gbx: loaded rom %s (id %016x)", romPath, romsource.Identify(rom))

	opts := []gameboy.Option{gameboy.WithLogger(log)}
	if bootPath != "" {
		bootROM, err := os.ReadFile(bootPath)
		if err != nil {
			return fmt.Errorf("load boot rom: %w", err)
		}
		opts = append(opts, gameboy.WithBootROM(bootROM))
	}

	core, err := gameboy.New(rom, opts...)
	if err != nil {
		return fmt.Errorf("init core: %w", err)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer(windowW, windowH, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()
	window.SetTitle("gbx")

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, ppu.ScreenWidth, ppu.ScreenHeight)
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	defer texture.Destroy()

	audioDevice, err := sdl.OpenAudioDevice("", false, &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_S16SYS,
		Channels: 2,
		Samples:  1024,
	}, nil, 0)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	defer sdl.CloseAudioDevice(audioDevice)
	sdl.PauseAudioDevice(audioDevice, false)

	var screen [ppu.ScreenHeight][ppu.ScreenWidth * 3]uint8
	var audioTrace []apu.Sample
	var audioBuf []byte

	core.SetScanlineFunc(func(line uint8, pixels [ppu.ScreenWidth][3]uint8) {
		for x, px := range pixels {
			copy(screen[line][x*3:x*3+3], px[:])
		}
	})
	core.SetAudioSampleFunc(func(left, right int16) {
		if tracePath != "" {
			audioTrace = append(audioTrace, apu.Sample{Left: left, Right: right})
		}
		audioBuf = append(audioBuf, byte(left), byte(left>>8), byte(right), byte(right>>8))
	})

	clipboardReady := clipboard.Init() == nil

	running := true
	for running && core.Runnable() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					running = false
					continue
				}
				if e.Keysym.Scancode == sdl.SCANCODE_F2 && e.State == sdl.PRESSED && clipboardReady {
					copyScreenToClipboard(screen)
					continue
				}
				if button, ok := keymap[e.Keysym.Scancode]; ok {
					core.SetButton(button, e.State == sdl.PRESSED)
				}
			}
		}

		core.EmulateFrame()

		if len(audioBuf) > 0 {
			sdl.QueueAudio(audioDevice, audioBuf)
			audioBuf = audioBuf[:0]
		}

		texture.Update(nil, flatten(screen), ppu.ScreenWidth*3)
		renderer.Copy(texture, nil, nil)
		renderer.Present()
	}

	if tracePath != "" {
		if err := debugtools.PlotAudioTrace(audioTrace, tracePath); err != nil {
			log.Warnf("gbx: write audio trace: %v", err)
		}
	}

	return nil
}

func flatten(screen [ppu.ScreenHeight][ppu.ScreenWidth * 3]uint8) []byte {
	out := make([]byte, 0, ppu.ScreenHeight*ppu.ScreenWidth*3)
	for _, row := range screen {
		out = append(out, row[:]...)
	}
	return out
}

// copyScreenToClipboard scales the current frame up to window size and
// writes it to the system clipboard as a PNG, for pasting a screenshot
// into a bug report without a separate screenshot tool.
func copyScreenToClipboard(screen [ppu.ScreenHeight][ppu.ScreenWidth * 3]uint8) {
	src := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			i := x * 3
			src.Set(x, y, color.RGBA{R: screen[y][i], G: screen[y][i+1], B: screen[y][i+2], A: 0xFF})
		}
	}
	scaled := image.NewRGBA(image.Rect(0, 0, windowW, windowH))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
}
