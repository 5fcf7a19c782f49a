// Package subtitle converts SubRip and ASS/SSA subtitles to WebVTT.
package subtitle

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/vmunix/reelshelf/internal/library"
)

// Header starts every WebVTT document, including empty ones.
const Header = "WEBVTT\n\n"

// ErrUnsupportedFormat is returned for subtitle formats without a converter.
var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

var srtTimestamps = regexp.MustCompile(`(\d{1,2}:\d{2}:\d{2}),(\d{3})(\s*-->\s*)(\d{1,2}:\d{2}:\d{2}),(\d{3})`)

// SRTToVTT converts SubRip text. Only line endings and timestamp
// punctuation change; cue numbers and malformed cues pass through.
func SRTToVTT(text string) string {
	text = normalize(text)
	return Header + srtTimestamps.ReplaceAllString(text, "$1.$2$3$4.$5")
}

var (
	overrideTags = regexp.MustCompile(`\{[^}]*\}`)
	assTimestamp = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})(?:\.(\d+))?$`)
)

const (
	dialogueMarker = "Dialogue:"
	// layer, start, end, style, name, three margins, effect, then free text
	dialogueFields = 10
)

// ASSToVTT converts the Dialogue records of an ASS/SSA script into cues.
// Records with too few fields or unreadable timestamps are skipped.
func ASSToVTT(text string) string {
	var sb strings.Builder
	sb.WriteString(Header)

	for _, line := range strings.Split(normalize(text), "\n") {
		line = strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(line, dialogueMarker) {
			continue
		}
		fields := strings.SplitN(strings.TrimPrefix(line, dialogueMarker), ",", dialogueFields)
		if len(fields) < dialogueFields {
			continue
		}
		start, ok := assTime(fields[1])
		if !ok {
			continue
		}
		end, ok := assTime(fields[2])
		if !ok {
			continue
		}

		cue := overrideTags.ReplaceAllString(fields[9], "")
		cue = strings.ReplaceAll(cue, `\N`, "\n")
		cue = strings.ReplaceAll(cue, `\n`, "\n")

		fmt.Fprintf(&sb, "%s --> %s\n%s\n\n", start, end, cue)
	}
	return sb.String()
}

// assTime rewrites H:MM:SS.cc as HH:MM:SS.mmm.
func assTime(s string) (string, bool) {
	m := assTimestamp.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	hours := m[1]
	if len(hours) < 2 {
		hours = "0" + hours
	}
	frac := m[4] + "000"
	return fmt.Sprintf("%s:%s:%s.%s", hours, m[2], m[3], frac[:3]), true
}

// Convert dispatches on a format name or file extension.
// WebVTT input is passed through with its header ensured.
func Convert(format, text string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "srt", "subrip":
		return SRTToVTT(text), nil
	case "ass", "ssa":
		return ASSToVTT(text), nil
	case "vtt", "webvtt":
		text = normalize(text)
		if strings.HasPrefix(text, "WEBVTT") {
			return text, nil
		}
		return Header + text, nil
	default:
		return "", fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

// ConvertTrack reads a track through its handle and converts it.
// An absent handle yields library.ErrHandleMissing; the caller should
// prompt for a relink.
func ConvertTrack(track library.SubtitleTrack) (string, error) {
	format := path.Ext(track.RelativePath)
	if format == "" {
		format = path.Ext(track.Label)
	}
	if format == "" {
		return "", fmt.Errorf("track %q: %w", track.Label, ErrUnsupportedFormat)
	}

	data, err := track.Handle.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read track %q: %w", track.Label, err)
	}
	return Convert(format, string(data))
}

func normalize(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
