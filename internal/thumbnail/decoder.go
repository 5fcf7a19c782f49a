package thumbnail

//go:generate mockgen -destination=mocks/decoder.go -package=mocks . Decoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/png" // frames arrive as PNG
	"os/exec"
	"strconv"
	"time"
)

// Decoder reads timing information and still frames from a video file.
type Decoder interface {
	// Duration returns the total play time; zero when unknown.
	Duration(ctx context.Context, path string) (time.Duration, error)
	// Frame returns the first decodable frame at or after at.
	Frame(ctx context.Context, path string, at time.Duration) (image.Image, error)
}

// FFmpeg decodes with the ffprobe and ffmpeg binaries.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
}

// NewFFmpeg returns a decoder; empty paths resolve through $PATH.
func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (f *FFmpeg) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, f.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbeDuration(out)
}

func parseProbeDuration(out []byte) (time.Duration, error) {
	var res probeResult
	if err := json.Unmarshal(out, &res); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if res.Format.Duration == "" || res.Format.Duration == "N/A" {
		return 0, nil
	}
	secs, err := strconv.ParseFloat(res.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", res.Format.Duration, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (f *FFmpeg) Frame(ctx context.Context, path string, at time.Duration) (image.Image, error) {
	cmd := exec.CommandContext(ctx, f.FFmpegPath,
		"-hide_banner", "-v", "error",
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ffmpeg: no frame at %s", at)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}
