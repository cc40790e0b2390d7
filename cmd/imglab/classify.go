package main

import (
	"fmt"

	"imglab/internal/picker"
	"imglab/internal/presenter"
	"imglab/internal/session"
	"imglab/pkg/types"

	"github.com/spf13/cobra"
)

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <image>",
		Short: "Classify an image and print the predicted class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := runOnce(args[0], types.Classify)
			if err != nil {
				return err
			}
			defer s.Close()

			v := s.View(types.Classify)
			for _, line := range v.Lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

// runOnce loads path and runs op against it on a fresh session. The
// caller closes the session on success.
func runOnce(path string, op types.Operation) (*session.Session, error) {
	file, err := picker.Load(path)
	if err != nil {
		return nil, err
	}

	s := session.NewFromConfig(cfg)
	if err := s.SelectFile(file); err != nil {
		s.Close()
		return nil, err
	}
	if _, err := s.Run(op); err != nil {
		s.Close()
		return nil, fmt.Errorf("%s failed: %s", op.Noun(), presenter.Cause(err))
	}
	return s, nil
}
