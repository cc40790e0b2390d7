package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imglab/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewDenoiseCmd creates the denoise command
func NewDenoiseCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "denoise <image>",
		Short: "Remove noise from an image and save the result",
		Long: `Send an image to the denoising endpoint and write the cleaned image.
By default the result is written next to the input as <name>-denoised.png.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := runOnce(args[0], types.Denoise)
			if err != nil {
				return err
			}
			defer s.Close()

			if output == "" {
				output = defaultOutput(args[0])
			}
			img := s.Denoised()
			if err := os.WriteFile(output, img.Data, 0644); err != nil {
				return fmt.Errorf("failed to write denoised image: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Denoised image written to %s (%s)\n",
				output, humanize.Bytes(uint64(len(img.Data))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "where to write the denoised image")
	return cmd
}

func defaultOutput(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "-denoised.png"
}
