package main

import (
	"fmt"
	"io"
	"strings"

	"xhs-resolver/internal/usecases"
	"xhs-resolver/pkg/metrics"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [text...]",
		Short: "Print the HD URL for a thumbnail link or share text",
		Long:  "Print the HD URL for a thumbnail link or share text. Reads stdin when no text is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			uc := usecases.NewResolveURLUseCase(metrics.New(nil), nil)
			r, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), r.HDURL)
			return err
		},
	}
}

// readInput joins args, or reads all of stdin when there are none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
