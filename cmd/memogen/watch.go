package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gijiroku/memogen/pkg/config"
	"github.com/gijiroku/memogen/pkg/memo"
	"github.com/gijiroku/memogen/pkg/watcher"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var (
		outputDir  string
		workers    int
		extensions []string
		debounce   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [flags] <dir>",
		Short: "Watch a directory and generate a memo for every new transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(resolveConfigPath())
			gen := memo.New(cfg, memo.WithLogger(log))

			w, err := watcher.New(args[0], watcher.Options{
				Extensions: normalizeExtensions(extensions),
				Debounce:   debounce,
				Workers:    workers,
				Logger:     log,
			})
			if err != nil {
				return err
			}

			err = w.Run(cmd.Context(), func(ctx context.Context, path string) error {
				_, err := gen.GenerateFromFile(ctx, path, memo.OutputPath(path, outputDir))
				return err
			})

			// Ctrl-C is the normal way to leave watch mode, not a failure.
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for generated memos (default: next to each transcript)")
	cmd.Flags().IntVar(&workers, "workers", memo.DefaultWorkers, "concurrent transcripts")
	cmd.Flags().StringSliceVar(&extensions, "ext", []string{".txt"}, "transcript file extensions to watch")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "quiet period before a changed file is processed")

	return cmd
}

// normalizeExtensions lowercases and dot-prefixes extension flags so
// "--ext txt" and "--ext .TXT" both work.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))

	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		out = append(out, ext)
	}

	return out
}
