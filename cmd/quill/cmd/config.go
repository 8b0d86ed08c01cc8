package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/quill/internal/config"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "Print the effective configuration as TOML",
		ArgsUsage: "[PATH]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			target := cmd.Args().First()
			if target == "" {
				target = "."
			}
			cfg, err := config.LoadWithOverrides(target, cmd.String("config"), nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}
			if cfg.ConfigFile != "" {
				fmt.Fprintf(os.Stderr, "# loaded from %s\n", cfg.ConfigFile)
			}
			out, err := cfg.TOML()
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}
