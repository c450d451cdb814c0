package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nugget/cdpmux/internal/cdp"
	"github.com/nugget/cdpmux/internal/cdpproto/runtime"
)

func newEvalCmd(flags *globalFlags) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "eval <target-id> <expression>",
		Short: "Evaluate a JavaScript expression in a target's page context",
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

			result, err := cdp.Execute(ctx, sess.Channel(), runtime.Evaluate(args[1]))
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			if result.ExceptionDetails != nil {
				printErr(cmd, "exception: %s", result.ExceptionDetails.Text)
				return nil
			}
			cmd.Println(string(result.Result.Value))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall command timeout")
	return cmd
}
