package image

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
)

// ToGray converts stretched samples in [0, 1] to an 8-bit grayscale
// image. samples[y][x] is row y of the frame.
func ToGray(samples [][]float64) *image.Gray {
	height := len(samples)
	width := 0
	if height > 0 {
		width = len(samples[0])
	}
	gray := image.NewGray(image.Rect(0, 0, width, height))
	for y, row := range samples {
		for x, v := range row {
			if x >= width {
				break
			}
			gray.Pix[y*gray.Stride+x] = uint8(clamp01(v) * 255)
		}
	}
	return gray
}

// Resize scales the frame down to fit within the given bounds, preserving
// aspect ratio. Frames already inside the bounds pass through unchanged.
func Resize(img image.Image, maxWidth, maxHeight int) *image.Gray {
	fitted := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	bounds := fitted.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, fitted, bounds.Min, draw.Src)
	return gray
}

// EncodePNG renders the frame as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Logger is the optional logging surface of a Pipeline. Compatible with
// logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Pipeline renders raw camera samples into publishable PNG frames:
// normalize, stretch, downscale, encode.
//
// Thread Safety:
//   - Render is safe for concurrent use; a Pipeline holds no per-frame
//     state and may be shared by every camera worker.
type Pipeline struct {
	cfg    Config
	logger Logger
}

// NewPipeline creates a Pipeline. logger may be nil.
func NewPipeline(cfg Config, logger Logger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger}
}

// Render produces the PNG screen frame for one exposure.
//
// Parameters:
//   - samples: Raw sample rows, samples[y][x]
//
// Returns:
//   - []byte: Encoded PNG
//   - error: ErrEmptyImage for an empty frame, ErrUnknownCurve for a bad
//     curve configuration
func (p *Pipeline) Render(samples [][]float64) ([]byte, error) {
	if len(samples) == 0 || len(samples[0]) == 0 {
		return nil, ErrEmptyImage
	}

	normalized := Normalize(samples, p.cfg.SampleResolutionBits)

	var stretched [][]float64
	switch p.cfg.Stretch {
	case AlgorithmCurve:
		if len(p.cfg.Curve.Percentile) == 2 && len(p.cfg.Curve.Value) == 2 && p.logger != nil {
			p.logger.Warn("both percentile and value intervals configured, value ignored")
		}
		var err error
		stretched, err = CurveStretch(normalized, p.cfg.Curve)
		if err != nil {
			return nil, err
		}
	default:
		stretched = AutoStretch(normalized, p.cfg.STF.TargetBackground, p.cfg.STF.ClippingPoint)
	}

	frame := Resize(ToGray(stretched), p.cfg.PublishWidth, p.cfg.PublishHeight)
	if p.logger != nil {
		p.logger.Debug("rendered frame",
			"width", frame.Bounds().Dx(),
			"height", frame.Bounds().Dy(),
		)
	}
	return EncodePNG(frame)
}
