package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/nugget/cdpmux/internal/cdp"
)

func newListenCmd(flags *globalFlags) *cobra.Command {
	var bufferSize int
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "listen <event-method>",
		Short: "Print every browser-level event of the given method until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			conn, err := connect(ctx, flags)
			if err != nil {
				return err
			}
			defer conn.Close(1000, "cdpctl done")

			consumer := conn.Root().Listen(bufferSize, cdp.EventKind(args[0]))
			for {
				payload, ok, err := consumer.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				data, err := json.Marshal(payload)
				if err != nil {
					printErr(cmd, "marshal event: %v", err)
					continue
				}
				cmd.Println(string(data))
			}
		},
	}
	cmd.Flags().IntVar(&bufferSize, "buffer-size", 64, "event queue capacity")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 = until interrupted)")
	return cmd
}
