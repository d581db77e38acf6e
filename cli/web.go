package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/sie/web"
)

type WebCmd struct {
	File  string `help:"SIE file to inspect." arg:"" type:"existingfile"`
	Host  string `help:"Address to bind to. Defaults to the configured host (127.0.0.1)."`
	Port  int    `help:"Port to listen on. Defaults to the configured port (8080)." default:"0"`
	Watch bool   `help:"Reload the file when it changes on disk." default:"true" negatable:""`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.start(ctx, "web")
	if err != nil {
		return err
	}
	defer s.finish()

	file, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	ledgerCfg, err := s.cfg.LedgerConfig()
	if err != nil {
		return err
	}

	port := s.cfg.Web.Port
	if cmd.Port > 0 {
		port = cmd.Port
	}

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(port, file, version, commitSHA)
	server.Host = s.cfg.Web.Host
	if cmd.Host != "" {
		server.Host = cmd.Host
	}
	server.WatchEnabled = cmd.Watch
	server.Loader = s.loader
	server.LedgerConfig = ledgerCfg

	printInfof(ctx.Stdout, "Starting server on http://%s:%d", server.Host, port)
	printInfof(ctx.Stdout, "Serving %s", pathStyle.Render(file))
	if server.Host != "127.0.0.1" && server.Host != "localhost" {
		printWarning(ctx.Stderr, "the inspector has no authentication, do not expose it to untrusted networks")
	}

	runCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt)
	defer stop()

	return server.Start(runCtx)
}
