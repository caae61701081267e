package texture

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func waitSettled(t *testing.T, l *Loader) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for l.State() == StateLoading {
		l.Poll()
		if time.Now().After(deadline) {
			t.Fatal("loader did not settle")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decal.png")
	writeTestPNG(t, path, 64, 48)

	l := NewLoader(path)
	if l.State() != StateLoading {
		t.Fatalf("state = %v, want loading", l.State())
	}
	waitSettled(t, l)
	if l.State() != StateReady {
		t.Fatalf("state = %v (err %v), want ready", l.State(), l.Err())
	}
	if w, h := l.Size(); w != 64 || h != 48 {
		t.Errorf("size = %dx%d, want 64x48", w, h)
	}
}

func TestLoadFromHTTP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	l := NewLoader(srv.URL + "/decal.png")
	waitSettled(t, l)
	if l.State() != StateReady {
		t.Fatalf("state = %v (err %v), want ready", l.State(), l.Err())
	}
}

func TestHTTPErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL + "/missing.png")
	waitSettled(t, l)
	if l.State() != StateFailed {
		t.Fatalf("state = %v, want failed", l.State())
	}
	if l.Err() == nil {
		t.Error("Err() = nil after failure")
	}
	if l.Image() == nil {
		t.Error("Image() = nil, want error placeholder")
	}
}

func TestMissingFileFails(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "nope.png"))
	waitSettled(t, l)
	if l.State() != StateFailed {
		t.Fatalf("state = %v, want failed", l.State())
	}
}

func TestGarbageDataFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(path)
	waitSettled(t, l)
	if l.State() != StateFailed {
		t.Fatalf("state = %v, want failed", l.State())
	}
}

func TestEmptySourceFailsImmediately(t *testing.T) {
	l := NewLoader("  ")
	if l.State() != StateFailed {
		t.Fatalf("state = %v, want failed", l.State())
	}
	if l.Poll() {
		t.Error("Poll() = true on settled loader")
	}
}

func TestOversizedImageIsCapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	writeTestPNG(t, path, 2048, 512)

	l := NewLoader(path)
	waitSettled(t, l)
	if l.State() != StateReady {
		t.Fatalf("state = %v (err %v), want ready", l.State(), l.Err())
	}
	w, h := l.Size()
	if w != 1024 || h != 256 {
		t.Errorf("size = %dx%d, want 1024x256", w, h)
	}
}

func TestPlaceholdersAreOpaque(t *testing.T) {
	for _, img := range []image.Image{LoadingPlaceholder(), ErrorPlaceholder()} {
		b := img.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			t.Fatal("empty placeholder")
		}
		_, _, _, a := img.At(b.Min.X, b.Min.Y).RGBA()
		if a != 0xffff {
			t.Errorf("placeholder corner alpha = %d, want opaque", a)
		}
	}
}
