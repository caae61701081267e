// Package texture resolves the machine's front-decal image from a local path
// or URL. The contract is a two-state availability: Loading until the image
// resolves, then Ready with its dimensions or Failed. Both non-Ready states
// substitute generated placeholder images, so a missing decal is a cosmetic
// blemish and never an error that propagates.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
)

// State is the loader's availability.
type State int

const (
	// StateLoading: fetch/decode still in flight; the neutral placeholder shows.
	StateLoading State = iota
	// StateReady: the image decoded; Image and Size are valid.
	StateReady
	// StateFailed: fetch or decode failed; the error placeholder shows.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// maxDim caps decal textures; larger images are downscaled preserving aspect.
const maxDim = 1024

const fetchTimeout = 30 * time.Second

const userAgent = "gachapon/1.0"

// Loader fetches and decodes one image off the frame thread. Poll from the
// frame loop to observe completion; Image always returns something drawable.
type Loader struct {
	source string
	state  State
	img    image.Image
	err    error
	done   chan result
}

type result struct {
	img image.Image
	err error
}

// NewLoader starts resolving source (http(s) URL or local path) in the
// background. An empty source fails immediately.
func NewLoader(source string) *Loader {
	l := &Loader{source: source, done: make(chan result, 1)}
	l.img = LoadingPlaceholder()
	if strings.TrimSpace(source) == "" {
		l.state = StateFailed
		l.err = fmt.Errorf("texture: empty source")
		l.img = ErrorPlaceholder()
		return l
	}
	go func() {
		img, err := fetchImage(source)
		l.done <- result{img: img, err: err}
	}()
	return l
}

// Poll checks for completion. Call once per frame from the main thread; it
// never blocks. Returns true the one time the state settles.
func (l *Loader) Poll() bool {
	if l.state != StateLoading {
		return false
	}
	select {
	case r := <-l.done:
		if r.err != nil {
			l.state = StateFailed
			l.err = r.err
			l.img = ErrorPlaceholder()
		} else {
			l.state = StateReady
			l.img = r.img
		}
		return true
	default:
		return false
	}
}

// State returns the current availability.
func (l *Loader) State() State { return l.state }

// Err returns the failure cause, nil unless Failed.
func (l *Loader) Err() error { return l.err }

// Source returns what the loader was asked to resolve.
func (l *Loader) Source() string { return l.source }

// Image returns the decoded image when Ready, otherwise the placeholder for
// the current state. Never nil.
func (l *Loader) Image() image.Image { return l.img }

// Size returns the current image dimensions (placeholder dimensions while
// not Ready).
func (l *Loader) Size() (w, h int) {
	b := l.img.Bounds()
	return b.Dx(), b.Dy()
}

// fetchImage resolves source to a decoded, size-capped image.
func fetchImage(source string) (image.Image, error) {
	var data []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: fetchTimeout}
		req, err := http.NewRequest(http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("texture: HTTP %d", resp.StatusCode)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		data = buf.Bytes()
	} else {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		data = b
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	return capSize(img), nil
}

// capSize downscales images larger than maxDim on either axis.
func capSize(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return transform.Resize(img, w, h, transform.Linear)
}

// placeholderDim is the side length of generated placeholder textures.
const placeholderDim = 128

// LoadingPlaceholder is a soft grey checker, blurred so it reads as "pending"
// rather than broken.
func LoadingPlaceholder() image.Image {
	return blur.Gaussian(checker(placeholderDim, 16,
		[3]uint8{78, 78, 84}, [3]uint8{96, 96, 104}), 3)
}

// ErrorPlaceholder is the classic magenta/black missing-texture checker.
func ErrorPlaceholder() image.Image {
	return checker(placeholderDim, 16, [3]uint8{240, 0, 240}, [3]uint8{12, 12, 12})
}

func checker(dim, cell int, a, b [3]uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, dim, dim))
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c[0]
			img.Pix[i+1] = c[1]
			img.Pix[i+2] = c[2]
			img.Pix[i+3] = 255
		}
	}
	return img
}
