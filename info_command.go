package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Squwid/squidcodec/torrentfile"
	"github.com/Squwid/squidcodec/util"
)

// openTorrent loads a local torrent file with the configured limits
func (c *commandContext) openTorrent(path string) (*torrentfile.TorrentFile, error) {
	if util.IsURL(path) {
		return nil, fmt.Errorf("%q is a url, only local torrent files are supported", path)
	}
	l := torrentfile.Loader{
		Decoder: c.config.Decoder(),
		Log:     logrus.NewEntry(c.log),
	}
	return l.Open(path)
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file-path>",
		Short: "Print the tracker url, length and hashes of a torrent file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := ctx.openTorrent(args[0])
			if err != nil {
				return err
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Tracker URL: %s\n", tf.Announce)
			fmt.Fprintf(&sb, "Length: %d\n", tf.Info.TotalLength())
			fmt.Fprintf(&sb, "Info Hash: %s\n", tf.Info.InfoHashHex())
			fmt.Fprintf(&sb, "Piece Length: %d\n", tf.Info.PieceLength)
			sb.WriteString("Piece Hashes:\n")
			for _, h := range tf.Info.PieceHashes() {
				fmt.Fprintf(&sb, "%x\n", h)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
}
