package debugger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hopperlabs/gbx/internal/cpu"
	"github.com/hopperlabs/gbx/pkg/gblog"
)

func TestFrameFromCPUDecodesFlags(t *testing.T) {
	c := &cpu.CPU{
		PC: 0x0150, SP: 0xFFFE,
		Registers: cpu.Registers{
			A: 0x01, F: uint8(cpu.FlagZ) | uint8(cpu.FlagC),
			B: 0x02, C: 0x03, D: 0x04, E: 0x05, H: 0x06, L: 0x07,
		},
	}
	f := FrameFromCPU(c)

	if f.PC != 0x0150 || f.SP != 0xFFFE {
		t.Fatalf("PC/SP = %04X/%04X, want 0150/FFFE", f.PC, f.SP)
	}
	if !f.Flags.Z || f.Flags.N || f.Flags.H || !f.Flags.Cy {
		t.Errorf("Flags = %+v, want Z=true N=false H=false Cy=true", f.Flags)
	}
}

func TestServerPublishesFramesToConnectedClient(t *testing.T) {
	srv := New(gblog.Default())
	ts := httptest.NewServer(http.HandlerFunc(srv.ServeHTTP))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// give ServeHTTP's goroutine time to register the client
	time.Sleep(20 * time.Millisecond)

	want := Frame{PC: 0x0100, SP: 0xFFFE}
	srv.Publish(want)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var got Frame
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.PC != want.PC || got.SP != want.SP {
		t.Errorf("got frame %+v, want %+v", got, want)
	}
}

func TestServerDrainsBreakCommandFromClient(t *testing.T) {
	srv := New(gblog.Default())
	ts := httptest.NewServer(http.HandlerFunc(srv.ServeHTTP))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msg := []byte(`{"op":"break","addr":256,"enabled":true}`)
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	var got []Breakpoint
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got = srv.DrainBreakpoints()
		if len(got) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(got) != 1 {
		t.Fatalf("drained %d breakpoints, want 1", len(got))
	}
	if got[0].Addr != 256 || !got[0].Enabled {
		t.Errorf("got %+v, want Addr=256 Enabled=true", got[0])
	}
}
