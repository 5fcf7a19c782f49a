package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelshelf/internal/library"
	"github.com/vmunix/reelshelf/internal/subtitle"
)

func newSubtitleCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtitle [file]",
		Short: "Convert a subtitle to WebVTT",
		Long: `Convert an SRT, ASS/SSA or VTT file to WebVTT.

With --video, the track is taken from an indexed video instead; --grant
names the folder to relink against so the track file can be read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubtitle(cmd, flags, args)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	cmd.Flags().String("video", "", "Indexed video id")
	cmd.Flags().String("grant", "", "Folder to relink against (with --video)")
	cmd.Flags().Int("track", 0, "Subtitle track number (with --video)")
	return cmd
}

func runSubtitle(cmd *cobra.Command, flags *globalFlags, args []string) error {
	videoID, _ := cmd.Flags().GetString("video")
	output, _ := cmd.Flags().GetString("output")

	var vtt string
	var err error
	switch {
	case videoID != "":
		vtt, err = convertIndexedTrack(cmd, flags, videoID)
	case len(args) == 1:
		vtt, err = convertFile(args[0])
	default:
		return errors.New("need a subtitle file or --video")
	}
	if err != nil {
		return err
	}

	if output == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), vtt)
		return err
	}
	return os.WriteFile(output, []byte(vtt), 0644)
}

func convertFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return subtitle.Convert(filepath.Ext(path), string(data))
}

func convertIndexedTrack(cmd *cobra.Command, flags *globalFlags, videoID string) (string, error) {
	grantDir, _ := cmd.Flags().GetString("grant")
	n, _ := cmd.Flags().GetInt("track")

	s, err := openSession(cmd, flags)
	if err != nil {
		return "", err
	}
	defer s.Close()

	idx, err := s.loadIndex()
	if err != nil {
		return "", fmt.Errorf("load index: %w", err)
	}
	if grantDir != "" {
		if _, err := s.relinkIndex(cmd.Context(), idx, grantDir, true); err != nil {
			return "", err
		}
	}

	var video *library.MediaAsset
	for i := range idx.Videos {
		if idx.Videos[i].ID == videoID {
			video = &idx.Videos[i]
			break
		}
	}
	if video == nil {
		return "", fmt.Errorf("video %s: %w", videoID, library.ErrNotFound)
	}
	if n < 0 || n >= len(video.Subtitles) {
		return "", fmt.Errorf("video %s has %d subtitle tracks, no track %d", videoID, len(video.Subtitles), n)
	}

	vtt, err := subtitle.ConvertTrack(video.Subtitles[n])
	if errors.Is(err, library.ErrHandleMissing) {
		return "", fmt.Errorf("%w: relink with --grant <dir>", err)
	}
	return vtt, err
}
