package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelshelf/internal/grant"
	"github.com/vmunix/reelshelf/internal/ingest"
)

func newIngestCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Import a folder as a new collection",
		Long: `Walk a folder, match sidecar posters, subtitles and .nfo files to each
video, generate thumbnails where no poster exists, and append the result
to the index as a new collection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, flags, args[0])
		},
	}
	cmd.Flags().String("name", "", "Collection name (default: folder name)")
	cmd.Flags().Bool("dry-run", false, "Show the result without saving")
	return cmd
}

func runIngest(cmd *cobra.Command, flags *globalFlags, dir string) error {
	s, err := openSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	name, _ := cmd.Flags().GetString("name")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if name == "" {
		name = filepath.Base(root)
	}

	entries, err := grant.Walk(cmd.Context(), root, s.log)
	if err != nil {
		return err
	}

	idx, err := s.loadIndex()
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	res, err := s.ingester(dryRun).Ingest(cmd.Context(), ingest.Request{Entries: entries, CollectionName: name})
	if err != nil {
		return err
	}

	if !dryRun {
		idx.Append(res.Collection, res.Assets)
		if err := s.saveIndex(idx); err != nil {
			return fmt.Errorf("save index: %w", err)
		}
	}

	if flags.jsonOutput {
		return printJSON(s.out, res)
	}

	fmt.Fprintf(s.out, "Collection %q (%s): %d videos, %d files skipped\n",
		res.Collection.Name, res.Collection.ID, len(res.Videos), res.Dropped)
	if len(res.Videos) == 0 {
		return nil
	}
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "%-40s  %-9s  %4s  %s\n", "TITLE", "THUMB", "SUBS", "PATH")
	fmt.Fprintln(s.out, strings.Repeat("-", 90))
	for _, v := range res.Videos {
		fmt.Fprintf(s.out, "%-40s  %-9s  %4d  %s\n",
			truncate(v.Asset.Metadata.Title, 40), v.ThumbnailSource, len(v.Asset.Subtitles), v.Asset.RelativePath)
		for _, w := range v.Warnings {
			fmt.Fprintf(s.out, "  ! %s\n", w)
		}
	}
	if dryRun {
		fmt.Fprintln(s.out, "\n(dry run, index not saved)")
	}
	return nil
}
