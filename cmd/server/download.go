package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"xhs-resolver/internal/config"
	"xhs-resolver/internal/domain"
	"xhs-resolver/internal/usecases"
	"xhs-resolver/pkg/metrics"

	"github.com/spf13/cobra"
)

func newDownloadCmd(configPath *string, fetchers fetcherFactory) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "download [text...]",
		Short: "Save the HD image for a thumbnail link as xhs_<id>.png",
		Long:  "Save the HD image for a thumbnail link as xhs_<id>.png. Reads stdin when no text is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			m := metrics.New(nil)
			r, err := usecases.NewResolveURLUseCase(m, nil).Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			imageFetcher, closeFetcher, err := fetchers(cfg.Fetcher)
			if err != nil {
				return err
			}
			defer closeFetcher()

			uc := usecases.NewDownloadImageUseCase(imageFetcher, m)
			dl, err := uc.Execute(cmd.Context(), r.TraceID)
			if err != nil {
				var failure *domain.DownloadFailure
				if errors.As(err, &failure) {
					fmt.Fprintln(cmd.ErrOrStderr(), "open instead:", failure.FallbackURL)
				}
				return err
			}

			path, err := outputPath(outDir, dl.TraceID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
				return fmt.Errorf("save image: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "directory to save the image in")
	return cmd
}

// outputPath places the file for traceID directly inside dir.
func outputPath(dir, traceID string) (string, error) {
	name := domain.LocalFilename(traceID)
	path := filepath.Join(dir, name)
	if filepath.Dir(path) != filepath.Clean(dir) || filepath.Base(path) != name {
		return "", fmt.Errorf("save image: %q escapes %s", name, dir)
	}
	return path, nil
}
