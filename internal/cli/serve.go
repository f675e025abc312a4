package cli

import (
	"github.com/spf13/cobra"

	"github.com/aldro61/PaperAtlas/internal/server"
)

var servePort int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the progress API server",
	Long: `Serve exposes the pipeline over HTTP for a polling frontend:

  POST /api/extract        start a run, returns a session ID
  GET  /api/progress/{id}  incremental progress and logs
  GET  /api/download/{id}  the papers CSV
  GET  /api/website/{id}   the rendered website
  GET  /api/health         liveness check

Example:
  paperatlas serve --port 5001`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		p := buildPipeline(cfg, log)
		return server.New(cfg, log, p).ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default: config server.port)")
}
