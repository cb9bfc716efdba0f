package cli

import (
	"github.com/spf13/cobra"

	httpserver "github.com/dropsync/backend/internal/interfaces/http"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the keep-alive HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	return httpserver.NewServer(cfg, log).Run()
}
