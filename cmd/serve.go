package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wrenhall/realmlog/pkg/catalog"
	"github.com/wrenhall/realmlog/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session-log JSON API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")

		cat, _, err := catalog.Load(itemsDir(), spellsDir())
		if err != nil {
			return err
		}

		return web.Run(web.ServerConfig{
			ListenAddr:  listenAddr,
			Catalog:     cat,
			SessionsDir: sessionsDir(),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
}
