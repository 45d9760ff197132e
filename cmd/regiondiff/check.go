package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xshoji/go-region-diff/imageutil"
)

// 差分がある場合の終了コード
const exitCodeDifferent = 2

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <imageA> <imageB>",
		Short: "Exit with status 2 when the images differ",
		Long: `check reports whether two images differ in any pixel without writing
a diff image. It exits with 0 when they are identical and 2 when they differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imgA, imgB, err := loadImages(args[0], args[1])
			if err != nil {
				return err
			}

			different, err := imageutil.HasDifferences(imgA, imgB)
			if err != nil {
				return fmt.Errorf("failed to compare images: %w", err)
			}

			if different {
				fmt.Fprintln(cmd.OutOrStdout(), "images differ")
				return &exitError{code: exitCodeDifferent}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "images are identical")
			return nil
		},
	}
}
