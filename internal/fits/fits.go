package fits

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/astrogo/fitsio"
)

// ===== ERRORS =====

var (
	// ErrNoFiles is returned by Latest when the watch directory contains
	// no FITS files at all.
	ErrNoFiles = errors.New("fits: no files found")

	// ErrNotImage is returned by Read when the primary HDU carries no
	// two-dimensional image.
	ErrNotImage = errors.New("fits: primary HDU is not a 2-D image")

	// ErrUnsupportedBitpix is returned by Read for pixel formats no
	// capture program in use emits.
	ErrUnsupportedBitpix = errors.New("fits: unsupported BITPIX")
)

// ===== FRAME =====

// Frame is one decoded capture: the primary HDU header and its image.
//
// Samples holds physical pixel values in row-major order, already scaled
// by BZERO/BSCALE, so a 16-bit unsigned capture spans 0..65535 regardless
// of the signed storage convention used on disk. Samples[y][x] addresses
// column x of row y; len(Samples) == Height and len(Samples[y]) == Width.
type Frame struct {
	Header  map[string]any
	Samples [][]float64
	Width   int
	Height  int
}

// Read decodes the primary HDU of the FITS file at path.
//
// Parameters:
//   - path: file to decode
//
// Returns:
//   - *Frame: header cards and scaled image samples
//   - error: ErrNotImage or ErrUnsupportedBitpix (wrapped) for frames of
//     the wrong shape, any other error for unreadable or truncated files
func Read(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fits: %w", err)
	}
	defer f.Close()

	fit, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("fits: opening %s: %w", filepath.Base(path), err)
	}
	defer fit.Close()

	hdu := fit.HDU(0)
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, filepath.Base(path))
	}

	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 2 {
		return nil, fmt.Errorf("%w: %s has %d axes", ErrNotImage, filepath.Base(path), len(axes))
	}
	width, height := axes[0], axes[1]

	flat, err := readSamples(img, hdr.Bitpix())
	if err != nil {
		return nil, fmt.Errorf("fits: reading %s: %w", filepath.Base(path), err)
	}
	if len(flat) < width*height {
		return nil, fmt.Errorf("fits: %s: %d samples for %dx%d image", filepath.Base(path), len(flat), width, height)
	}

	header := headerMap(hdr)
	scaleSamples(flat, header)

	samples := make([][]float64, height)
	for y := 0; y < height; y++ {
		samples[y] = flat[y*width : (y+1)*width : (y+1)*width]
	}

	return &Frame{
		Header:  header,
		Samples: samples,
		Width:   width,
		Height:  height,
	}, nil
}

// readSamples decodes the image payload into float64 values, picking the
// slice type that matches the on-disk BITPIX.
func readSamples(img fitsio.Image, bitpix int) ([]float64, error) {
	switch bitpix {
	case 16:
		var raw []int16
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloats(raw), nil
	case 32:
		var raw []int32
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloats(raw), nil
	case 64:
		var raw []int64
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloats(raw), nil
	case -32:
		var raw []float32
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return toFloats(raw), nil
	case -64:
		var raw []float64
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w %d", ErrUnsupportedBitpix, bitpix)
	}
}

func toFloats[T int16 | int32 | int64 | float32](raw []T) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}

// scaleSamples applies the FITS linear scaling physical = BZERO + BSCALE*raw
// in place. Headers without the cards leave the samples untouched.
func scaleSamples(flat []float64, header map[string]any) {
	bzero := headerFloat(header, "BZERO", 0)
	bscale := headerFloat(header, "BSCALE", 1)
	if bzero == 0 && bscale == 1 {
		return
	}
	for i, v := range flat {
		flat[i] = bzero + bscale*v
	}
}

// headerMap copies every card into a plain map keyed by card name.
func headerMap(hdr *fitsio.Header) map[string]any {
	out := make(map[string]any)
	for _, key := range hdr.Keys() {
		if card := hdr.Get(key); card != nil {
			out[card.Name] = card.Value
		}
	}
	return out
}

// ===== DIRECTORY SCAN =====

// Latest returns the path of the most recently modified .fits file under
// dir, searching subdirectories recursively.
//
// Capture programs write one file per exposure into a session tree, so the
// newest file is the frame currently worth publishing.
//
// Parameters:
//   - dir: directory to scan
//
// Returns:
//   - string: path of the newest frame
//   - error: ErrNoFiles (wrapped) when no .fits file exists under dir,
//     any other error when the directory cannot be walked
func Latest(dir string) (string, error) {
	var (
		newest   string
		newestAt time.Time
	)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".fits" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if newest == "" || info.ModTime().After(newestAt) {
			newest = path
			newestAt = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fits: scanning %s: %w", dir, err)
	}
	if newest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	return newest, nil
}
