package thumbnail_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/reelshelf/internal/library"
	"github.com/vmunix/reelshelf/internal/thumbnail"
	"github.com/vmunix/reelshelf/internal/thumbnail/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func testFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

func videoEntry() library.FileEntry {
	return library.NewFileEntry("Holiday/movie.mp4", 100, library.NewHandle("/media/Holiday/movie.mp4"))
}

func TestGenerate_WritesFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	dec := mocks.NewMockDecoder(ctrl)
	dec.EXPECT().Duration(gomock.Any(), "/media/Holiday/movie.mp4").Return(100*time.Second, nil)
	// 0.1 + 0.5*(0.9-0.1) = 0.5 of the duration
	dec.EXPECT().Frame(gomock.Any(), "/media/Holiday/movie.mp4", 50*time.Second).Return(testFrame(), nil)

	out := t.TempDir()
	gen := thumbnail.New(dec, fixedRand(0.5), thumbnail.Config{Timeout: time.Second, SeekMin: 0.1, SeekMax: 0.9, Quality: 80, OutputDir: out}, testLogger())

	ref, err := gen.Generate(context.Background(), videoEntry())
	require.NoError(t, err)
	assert.Equal(t, out, filepath.Dir(ref))
	assert.Equal(t, ".jpg", filepath.Ext(ref))

	f, err := os.Open(ref)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	_, format, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestGenerate_DataURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	dec := mocks.NewMockDecoder(ctrl)
	dec.EXPECT().Duration(gomock.Any(), gomock.Any()).Return(10*time.Second, nil)
	dec.EXPECT().Frame(gomock.Any(), gomock.Any(), time.Second).Return(testFrame(), nil)

	gen := thumbnail.New(dec, fixedRand(0), thumbnail.Config{SeekMin: 0.1, SeekMax: 0.9}, testLogger())

	ref, err := gen.Generate(context.Background(), videoEntry())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "data:image/jpeg;base64,"))
}

func TestGenerate_Unavailable(t *testing.T) {
	t.Run("absent handle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gen := thumbnail.New(mocks.NewMockDecoder(ctrl), fixedRand(0), thumbnail.Config{}, testLogger())

		_, err := gen.Generate(context.Background(), library.NewFileEntry("a.mp4", 1, library.Handle{}))
		assert.True(t, errors.Is(err, thumbnail.ErrUnavailable))
		assert.True(t, errors.Is(err, library.ErrHandleMissing))
	})

	t.Run("zero duration", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dec := mocks.NewMockDecoder(ctrl)
		dec.EXPECT().Duration(gomock.Any(), gomock.Any()).Return(time.Duration(0), nil)

		gen := thumbnail.New(dec, fixedRand(0), thumbnail.Config{}, testLogger())
		_, err := gen.Generate(context.Background(), videoEntry())
		assert.ErrorIs(t, err, thumbnail.ErrUnavailable)
	})

	t.Run("probe error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dec := mocks.NewMockDecoder(ctrl)
		dec.EXPECT().Duration(gomock.Any(), gomock.Any()).Return(time.Duration(0), errors.New("ffprobe: exit status 1"))

		gen := thumbnail.New(dec, fixedRand(0), thumbnail.Config{}, testLogger())
		_, err := gen.Generate(context.Background(), videoEntry())
		assert.ErrorIs(t, err, thumbnail.ErrUnavailable)
	})

	t.Run("decode timeout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dec := mocks.NewMockDecoder(ctrl)
		dec.EXPECT().Duration(gomock.Any(), gomock.Any()).Return(time.Minute, nil)
		dec.EXPECT().Frame(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string, _ time.Duration) (image.Image, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})

		gen := thumbnail.New(dec, fixedRand(0.3), thumbnail.Config{Timeout: 20 * time.Millisecond}, testLogger())
		_, err := gen.Generate(context.Background(), videoEntry())
		assert.ErrorIs(t, err, thumbnail.ErrUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSeekPosition_WithinRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := thumbnail.Config{SeekMin: 0.1, SeekMax: 0.9}

	low := thumbnail.New(mocks.NewMockDecoder(ctrl), fixedRand(0), cfg, testLogger())
	assert.Equal(t, 10*time.Second, low.SeekPosition(100*time.Second))

	high := thumbnail.New(mocks.NewMockDecoder(ctrl), fixedRand(0.999999), cfg, testLogger())
	assert.LessOrEqual(t, high.SeekPosition(100*time.Second), 90*time.Second)
	assert.Greater(t, high.SeekPosition(100*time.Second), 89*time.Second)
}
