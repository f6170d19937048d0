package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/nocodecreative/n8nchat/internal/config"
)

// NewConfigCommand returns the config subcommand.
func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the merged configuration as YAML",
				Action: runConfigShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config, .env and log file locations",
				Action: runConfigPath,
			},
		},
		DefaultCommand: "show",
	}
}

func runConfigShow(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return nil
}

func runConfigPath(_ context.Context, cmd *cli.Command) error {
	fmt.Printf("config: %s\n", configPath(cmd))
	fmt.Printf("dotenv: %s\n", config.DotenvPath())
	fmt.Printf("log:    %s\n", config.LogPath())
	return nil
}
