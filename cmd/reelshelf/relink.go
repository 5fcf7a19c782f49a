package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelshelf/internal/relink"
)

func newRelinkCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relink <dir>",
		Short: "Match indexed videos against a folder",
		Long: `Walk a folder and bind every indexed video to a file in it by relative path.
Videos that cannot be found are reported with the closest candidate paths.
Nothing in the index is modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelink(cmd, flags, args[0])
		},
	}
	cmd.Flags().Bool("subtitles", false, "Also rebind subtitle tracks")
	return cmd
}

func runRelink(cmd *cobra.Command, flags *globalFlags, dir string) error {
	s, err := openSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	subtitles, _ := cmd.Flags().GetBool("subtitles")

	idx, err := s.loadIndex()
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	res, err := s.relinkIndex(cmd.Context(), idx, dir, subtitles)
	if err != nil {
		return err
	}

	if flags.jsonOutput {
		return printJSON(s.out, relinkReport(res))
	}

	fmt.Fprintf(s.out, "Relinked %d videos against %d files: %d exact, %d by name, %d missing",
		len(res.Assets), res.Candidates, res.Exact, res.Fallback, res.Unresolved)
	if subtitles || s.cfg.Relink.Subtitles {
		fmt.Fprintf(s.out, ", %d subtitle tracks", res.Subtitles)
	}
	fmt.Fprintln(s.out)

	missing := res.UnresolvedAssets()
	if len(missing) == 0 {
		return nil
	}
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "%-36s  %s\n", "ID", "PATH")
	fmt.Fprintln(s.out, strings.Repeat("-", 90))
	for _, a := range missing {
		fmt.Fprintf(s.out, "%-36s  %s\n", a.ID, a.RelativePath)
		for _, sug := range res.Suggestions[a.ID] {
			fmt.Fprintf(s.out, "%-36s    ? %s\n", "", sug)
		}
	}
	return nil
}

type relinkEntry struct {
	ID           string   `json:"id"`
	RelativePath string   `json:"relative_path"`
	Match        string   `json:"match"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

type relinkSummary struct {
	Exact      int           `json:"exact"`
	Fallback   int           `json:"fallback"`
	Unresolved int           `json:"unresolved"`
	Candidates int           `json:"candidates"`
	Subtitles  int           `json:"subtitles"`
	Videos     []relinkEntry `json:"videos"`
}

func relinkReport(res *relink.Result) relinkSummary {
	out := relinkSummary{
		Exact:      res.Exact,
		Fallback:   res.Fallback,
		Unresolved: res.Unresolved,
		Candidates: res.Candidates,
		Subtitles:  res.Subtitles,
		Videos:     make([]relinkEntry, len(res.Assets)),
	}
	for i, a := range res.Assets {
		out.Videos[i] = relinkEntry{
			ID:           a.ID,
			RelativePath: a.RelativePath,
			Match:        res.Matches[i].String(),
			Suggestions:  res.Suggestions[a.ID],
		}
	}
	return out
}
