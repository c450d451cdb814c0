package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/nugget/cdpmux/internal/cdp"
	"github.com/nugget/cdpmux/internal/cdpproto"
	"github.com/nugget/cdpmux/internal/cdpproto/target"
)

func newTargetsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the browser's current debug targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			conn, err := connect(ctx, flags)
			if err != nil {
				return err
			}
			defer conn.Close(1000, "cdpctl done")

			infos, err := cdp.Execute(ctx, conn.Root(), target.GetTargets())
			if err != nil {
				return err
			}
			for _, info := range infos {
				keyColor.Fprintf(cmd.OutOrStdout(), "%s  ", info.TargetID)
				cmd.Printf("%-10s %-40s %s\n", info.Type, info.Title, info.URL)
			}
			return nil
		},
	}
}

func connect(ctx context.Context, flags *globalFlags) (*cdp.Connection, error) {
	logger := flags.newLogger()
	b := cdp.NewBootstrap(nil, cdpproto.NewRegistry(), logger)
	return b.Connect(ctx, flags.debuggingURL)
}
