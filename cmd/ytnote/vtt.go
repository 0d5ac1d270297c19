package main

import (
	"github.com/spf13/cobra"

	"github.com/zudsniper/ytnote/internal/config"
	"github.com/zudsniper/ytnote/internal/output"
	"github.com/zudsniper/ytnote/internal/resolve"
)

func newVTTCmd(cfg config.Config) *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "vtt <file>",
		Short: "Convert a local WebVTT subtitle file to transcript JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resolve.FromSubtitleFile(args[0], language)
			if err != nil {
				return failure(err)
			}
			if err := output.WriteJSON(cmd.OutOrStdout(), res); err != nil {
				return failure(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", cfg.Language, "Language code recorded in the output")
	return cmd
}
