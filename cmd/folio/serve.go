package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/folio"
	"pkt.systems/folio/core"
	"pkt.systems/folio/httpapi"
	"pkt.systems/folio/internal/appconfig"
	"pkt.systems/folio/internal/version"
	"pkt.systems/folio/schema"
	"pkt.systems/folio/sshserver"
	"pkt.systems/pslog"
)

//go:embed assets/banner.txt
var serveBanner string

func newServeCmd() *cobra.Command {
	var cfgPath string
	var noBanner bool
	var httpOnly bool
	var sshOnly bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web and SSH portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if httpOnly && sshOnly {
				return errors.New("--http-only and --ssh-only are mutually exclusive")
			}
			logMode := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_MODE")))
			showBanner := !noBanner && logMode != "json" && logMode != "structured"
			if showBanner && serveBanner != "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), serveBanner)
			}
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			logger.Info("folio starting", "version", version.Current(), "content_dir", cfg.ContentDir)

			opts := serveOptions(httpOnly, sshOnly)
			server, err := folio.New(toServerConfig(cfg), folio.ServerDeps{
				ServiceDeps: core.ServiceDeps{
					Profile: cfg.Site.Profile(),
					Logger:  logger,
				},
			}, opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Stop(stopCtx); err != nil {
					logger.Warn("server stop failed", "err", err)
				}
			}()
			go reloadOnHangup(ctx, server.Service())

			if err := server.Start(ctx); err != nil {
				return err
			}
			return server.Wait()
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "disable startup banner")
	cmd.Flags().BoolVar(&httpOnly, "http-only", false, "serve only the web UI")
	cmd.Flags().BoolVar(&sshOnly, "ssh-only", false, "serve only the SSH UI")
	return cmd
}

func serveOptions(httpOnly, sshOnly bool) []folio.ServerOption {
	switch {
	case httpOnly:
		return []folio.ServerOption{folio.WithHTTP()}
	case sshOnly:
		return []folio.ServerOption{folio.WithSSH()}
	default:
		return []folio.ServerOption{folio.WithHTTP(), folio.WithSSH()}
	}
}

// reloadOnHangup reloads content on SIGHUP until ctx is done.
func reloadOnHangup(ctx context.Context, service core.Service) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	log := pslog.Ctx(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			resp, err := service.ReloadContent(ctx, schema.ReloadContentRequest{})
			if err != nil {
				log.Warn("content reload on sighup failed", "err", err)
				continue
			}
			log.Info("content reload on sighup", "posts", resp.Posts, "projects", resp.Projects)
		}
	}
}

func toServerConfig(cfg appconfig.Config) folio.ServerConfig {
	return folio.ServerConfig{
		Service: cfg.ServiceConfig(),
		HTTP:    toHTTPConfig(cfg),
		SSH:     toSSHConfig(cfg),
	}
}

func toHTTPConfig(cfg appconfig.Config) httpapi.Config {
	return httpapi.Config{
		Addr:             cfg.HTTP.Addr,
		BaseURL:          cfg.HTTP.BaseURL,
		BasePath:         cfg.HTTP.BasePath,
		DisableAccessLog: cfg.Logging.DisableAccessLog,
		HubHistory:       256,
		DefaultTheme:     cfg.Service.DefaultTheme,
		BlogPreviewLimit: cfg.Service.BlogPreviewLimit,
	}
}

func toSSHConfig(cfg appconfig.Config) sshserver.Config {
	return sshserver.Config{
		Addr:         cfg.SSH.Addr,
		HostKeyPath:  cfg.SSH.HostKeyPath,
		IdleTimeout:  time.Duration(cfg.SSH.IdleTimeoutMinutes) * time.Minute,
		DefaultTheme: cfg.Service.DefaultTheme,
	}
}
