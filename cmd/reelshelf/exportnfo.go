package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelshelf/internal/nfo"
)

func newExportNFOCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-nfo <root>",
		Short: "Write .nfo sidecars next to indexed videos",
		Long: `Write a Kodi-style .nfo file for every indexed video, resolving stored
relative paths against root. Existing files are left alone unless --overwrite.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportNFO(cmd, flags, args[0])
		},
	}
	cmd.Flags().Bool("overwrite", false, "Replace existing .nfo files")
	return cmd
}

type exportRow struct {
	VideoID string `json:"video_id"`
	Path    string `json:"path,omitempty"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func runExportNFO(cmd *cobra.Command, flags *globalFlags, dir string) error {
	s, err := openSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	overwrite, _ := cmd.Flags().GetBool("overwrite")
	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	idx, err := s.loadIndex()
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	var written, skipped, failed int
	rows := make([]exportRow, 0, len(idx.Videos))
	for _, r := range nfo.ExportSidecars(idx, root, overwrite) {
		row := exportRow{VideoID: r.VideoID, Path: r.Path}
		switch {
		case r.Err != nil:
			row.Status, row.Error = "failed", r.Err.Error()
			failed++
			s.log.Warn("export failed", "video_id", r.VideoID, "error", r.Err)
		case r.Skipped:
			row.Status = "skipped"
			skipped++
		default:
			row.Status = "written"
			written++
		}
		rows = append(rows, row)
	}

	if flags.jsonOutput {
		return printJSON(s.out, rows)
	}
	fmt.Fprintf(s.out, "Wrote %d sidecars, %d skipped, %d failed\n", written, skipped, failed)
	return nil
}
