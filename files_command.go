package main

import (
	"fmt"
	"path"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Squwid/squidcodec/torrentfile"
	"github.com/Squwid/squidcodec/util"
)

func newFilesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "files <file-path>",
		Short: "List the files described by a torrent file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := ctx.openTorrent(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderFiles(tf.Info))
			return err
		},
	}
}

func renderFiles(ti torrentfile.TorrentInfo) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Path", "Size", "Bytes"})

	files := ti.Files
	if !ti.IsMultiFile() {
		files = []torrentfile.File{{Length: ti.Length, Path: []string{ti.Name}}}
	} else {
		// Multi file torrents place their files under a directory called Name
		prefixed := make([]torrentfile.File, len(files))
		for i, f := range files {
			prefixed[i] = torrentfile.File{Length: f.Length, Path: append([]string{ti.Name}, f.Path...)}
		}
		files = prefixed
	}

	for _, f := range files {
		tw.AppendRow(table.Row{path.Join(f.Path...), util.FormatBytes(f.Length), strconv.FormatInt(f.Length, 10)})
	}
	total := ti.TotalLength()
	tw.AppendFooter(table.Row{fmt.Sprintf("%d files", len(files)), util.FormatBytes(total), strconv.FormatInt(total, 10)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}
