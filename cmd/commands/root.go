// Package commands holds the n8nchat CLI.
package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/nocodecreative/n8nchat/internal/version"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "n8nchat",
		Usage:   "Chat with an n8n chat webhook from the terminal",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (.jsonc, .yaml)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "webhook-url",
				Aliases: []string{"u"},
				Usage:   "n8n chat webhook URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "route",
				Usage: "Route sent with every request (overrides config)",
			},
		},
		Commands: []*cli.Command{
			NewChatCommand(),
			NewAskCommand(),
			NewMockCommand(),
			NewConfigCommand(),
		},
		DefaultCommand: "chat",
	}
}
