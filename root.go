package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Squwid/squidcodec/config"
)

// commandContext carries what every subcommand needs once flags are parsed
type commandContext struct {
	configFlag string

	config *config.Config
	log    *logrus.Logger
}

func (c *commandContext) load() error {
	cfg, exists, err := config.Load(c.configFlag)
	if err != nil {
		return err
	}
	c.config = cfg
	c.log = cfg.Logger()
	c.log.WithField("FromFile", exists).Debugf("Loaded configuration")
	return nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "squidcodec",
		Short:         "Decode bencoded data and inspect torrent metainfo",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path (default $"+config.EnvPath+")")

	rootCmd.AddCommand(newDecodeCommand(ctx))
	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newFilesCommand(ctx))
	return rootCmd
}
