package main

import (
	"crypto/tls"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/four-pillars/internal/certs"
	"github.com/Veraticus/four-pillars/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classification JSON API",
		Long: `Start an HTTP server exposing:

  POST /api/classify        classify a birth record
  POST /api/chart           classify four glyph pillars
  GET  /api/results         recent classifications
  GET  /api/results/{id}    one stored classification
  GET  /healthz             liveness

With --tls the server uses a self-signed certificate kept in
--cert-dir (default ~/.config/pillars/certs, created on first use).`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed localhost certificate")
	cmd.Flags().String("cert-dir", "", "Directory holding the TLS certificate and key")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.cert_dir", cmd.Flags().Lookup("cert-dir"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var tlsConfig *tls.Config
	if useTLS, _ := cmd.Flags().GetBool("tls"); useTLS {
		tlsConfig, err = certs.NewFileManager(a.cfg.CertDir).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
	}

	return server.New(a.engine, a.store, version).ListenAndServe(ctx, a.cfg.ServerAddr, tlsConfig)
}
