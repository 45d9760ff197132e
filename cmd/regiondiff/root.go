package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xshoji/go-region-diff/utils"
)

// 環境変数でログレベルの初期値を変更できる
const envLogLevel = "REGIONDIFF_LOG_LEVEL"

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		logJSON  bool
	)

	rootCmd := &cobra.Command{
		Use:   "regiondiff",
		Short: "Pixel diff tool that outlines clustered regions of change",
		Long: `regiondiff compares two images of the same size pixel by pixel, groups
changed pixels into regions and writes an image where unchanged pixels are
gray, changed pixels keep their color and every region is outlined.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return err
			}

			opts := &slog.HandlerOptions{Level: level}
			var handler slog.Handler
			if logJSON {
				handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
			} else {
				handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
			}
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", utils.GetEnvOrDefault(envLogLevel, "info"), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(newCompareCmd(), newCheckCmd(), newVersionCmd())
	return rootCmd
}

// parseLogLevel はログレベルの文字列を slog.Level に変換する
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
