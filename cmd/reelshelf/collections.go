package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCollectionsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCollections(cmd, flags)
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a collection and its videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollectionsRemove(cmd, flags, args[0])
		},
	}
	cmd.AddCommand(rm)
	return cmd
}

type collectionRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Videos       int    `json:"videos"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func runCollections(cmd *cobra.Command, flags *globalFlags) error {
	s, err := openSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	idx, err := s.loadIndex()
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	rows := make([]collectionRow, len(idx.Collections))
	for i, c := range idx.Collections {
		rows[i] = collectionRow{
			ID:           c.ID,
			Name:         c.Name,
			Videos:       len(idx.CollectionVideos(c.ID)),
			ThumbnailURL: c.ThumbnailURL,
			CreatedAt:    c.CreatedAt.Format("2006-01-02 15:04"),
		}
	}

	if flags.jsonOutput {
		return printJSON(s.out, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(s.out, "No collections")
		return nil
	}

	fmt.Fprintf(s.out, "%-36s  %-28s  %6s  %s\n", "ID", "NAME", "VIDEOS", "CREATED")
	fmt.Fprintln(s.out, strings.Repeat("-", 90))
	for _, r := range rows {
		fmt.Fprintf(s.out, "%-36s  %-28s  %6d  %s\n", r.ID, truncate(r.Name, 28), r.Videos, r.CreatedAt)
	}
	return nil
}

func runCollectionsRemove(cmd *cobra.Command, flags *globalFlags, id string) error {
	s, err := openSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	idx, err := s.loadIndex()
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	removed := len(idx.CollectionVideos(id))
	if err := idx.RemoveCollection(id); err != nil {
		return fmt.Errorf("collection %s: %w", id, err)
	}
	if err := s.saveIndex(idx); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	fmt.Fprintf(s.out, "Removed collection %s (%d videos)\n", id, removed)
	return nil
}
