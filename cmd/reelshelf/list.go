package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelshelf/internal/library"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, flags)
		},
	}
	cmd.Flags().String("collection", "", "Only videos of this collection id")
	cmd.Flags().String("grant", "", "Relink against this folder before listing")
	cmd.Flags().Bool("unplayable", false, "Only videos without a live file")
	return cmd
}

func runList(cmd *cobra.Command, flags *globalFlags) error {
	s, err := openSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	collectionID, _ := cmd.Flags().GetString("collection")
	grantDir, _ := cmd.Flags().GetString("grant")
	unplayable, _ := cmd.Flags().GetBool("unplayable")

	idx, err := s.loadIndex()
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	if collectionID != "" {
		if _, err := idx.Collection(collectionID); err != nil {
			return fmt.Errorf("collection %s: %w", collectionID, err)
		}
	}
	if grantDir != "" {
		if _, err := s.relinkIndex(cmd.Context(), idx, grantDir, false); err != nil {
			return err
		}
	}

	videos := filterVideos(idx, collectionID, unplayable)

	if flags.jsonOutput {
		return printJSON(s.out, videos)
	}
	if len(videos) == 0 {
		fmt.Fprintln(s.out, "No videos found")
		return nil
	}

	fmt.Fprintf(s.out, "%-36s  %-28s  %-4s  %9s  %s\n", "ID", "TITLE", "PLAY", "SIZE", "PATH")
	fmt.Fprintln(s.out, strings.Repeat("-", 90))
	for _, v := range videos {
		play := "-"
		if v.Playable() {
			play = "yes"
		}
		fmt.Fprintf(s.out, "%-36s  %-28s  %-4s  %9s  %s\n",
			v.ID, truncate(v.Metadata.Title, 28), play, formatSize(v.Size), v.RelativePath)
	}
	fmt.Fprintf(s.out, "\n%d videos\n", len(videos))
	return nil
}

func filterVideos(idx *library.Index, collectionID string, unplayable bool) []library.MediaAsset {
	out := []library.MediaAsset{}
	for _, v := range idx.Videos {
		if collectionID != "" && v.CollectionID != collectionID {
			continue
		}
		if unplayable && v.Playable() {
			continue
		}
		out = append(out, v)
	}
	return out
}
