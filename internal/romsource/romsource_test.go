package romsource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReadsRawROMDirectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.gb")
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Load = %v, want %v", got, want)
	}
}

func TestIdentifyIsStableAndContentSensitive(t *testing.T) {
	a := []byte("same rom bytes")
	b := []byte("same rom bytes")
	c := []byte("different rom bytes")

	if Identify(a) != Identify(b) {
		t.Errorf("Identify not stable across identical content")
	}
	if Identify(a) == Identify(c) {
		t.Errorf("Identify collided for distinct content")
	}
}
