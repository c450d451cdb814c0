package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nugget/cdpmux/internal/cdp"
	"github.com/nugget/cdpmux/internal/cdpproto/page"
)

func newNavigateCmd(flags *globalFlags) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "navigate <target-id> <url>",
		Short: "Navigate an existing target to url and wait for load",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			conn, err := connect(ctx, flags)
			if err != nil {
				return err
			}
			defer conn.Close(1000, "cdpctl done")

			sess, err := conn.ConnectSession(ctx, cdp.TargetID(args[0]))
			if err != nil {
				return fmt.Errorf("attach: %w", err)
			}

			if _, err := cdp.Execute(ctx, sess.Channel(), page.Enable()); err != nil {
				return fmt.Errorf("page.enable: %w", err)
			}

			loaded := sess.Channel().Listen(4, page.EventLoadEventFired)

			if _, err := cdp.Execute(ctx, sess.Channel(), page.Navigate(args[1])); err != nil {
				return fmt.Errorf("navigate: %w", err)
			}

			if _, ok, err := loaded.Next(ctx); err != nil {
				return fmt.Errorf("waiting for load: %w", err)
			} else if !ok {
				return fmt.Errorf("session closed before load event")
			}

			okColor.Fprintln(cmd.OutOrStdout(), "loaded")
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall command timeout")
	return cmd
}
