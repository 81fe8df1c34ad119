package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Squwid/squidcodec/bencode"
)

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <bencoded-text>",
		Short: "Print a bencoded value as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := []byte(args[0])
			d := ctx.config.Decoder()

			v, n, err := d.Decode(input)
			if err != nil {
				return err
			}
			if n != len(input) {
				ctx.log.WithField("Ignored", len(input)-n).Warnf("Trailing data after value")
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), bencode.Render(v))
			return err
		},
	}
}
