package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pkt.systems/folio/bootstrap"
	"pkt.systems/folio/internal/appconfig"
	"pkt.systems/pslog"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the folio config",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var outputDir string
	var overwrite bool
	var skipContent bool
	var imageTag string
	var sets []string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config, starter content and container files",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			out := outputDir
			if out == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				out = filepath.Join(home, ".folio")
			}
			overrides := make([]bootstrap.ConfigOverride, 0, len(sets))
			for _, raw := range sets {
				override, err := bootstrap.ParseOverride(raw)
				if err != nil {
					return err
				}
				overrides = append(overrides, override)
			}
			paths, err := bootstrap.WriteBootstrap(out, overwrite, bootstrap.Options{
				ImageTag:    imageTag,
				SkipContent: skipContent,
				Overrides:   overrides,
			})
			if err != nil {
				return err
			}
			logger.Info("config init wrote", "path", paths.HostConfigPath, "name", "config.yaml")
			if !skipContent {
				logger.Info("config init wrote", "path", paths.ContentDir, "name", "content/")
			}
			logger.Info("config init wrote", "path", paths.HostKeyPath, "name", "ssh_host_key")
			logger.Info("config init wrote", "path", paths.Bundle.ConfigPath, "name", "config-for-container.yaml")
			logger.Info("config init wrote", "path", paths.Bundle.ComposePath, "name", "docker-compose.yaml")
			logger.Info("config init wrote", "path", paths.Bundle.Containerfile, "name", "Containerfile")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default ~/.folio)")
	cmd.Flags().BoolVar(&overwrite, "force", false, "overwrite existing files")
	cmd.Flags().BoolVar(&skipContent, "skip-content", false, "do not copy the starter content")
	cmd.Flags().StringVar(&imageTag, "image-tag", "", "container image tag for the compose file")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a config value, e.g. --set site.name=Ada")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config after defaults and environment overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			data, err := appconfig.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	return cmd
}
