package main

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brokkr-rpc/brokkr/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:           "config",
		Short:         "Inspect or create the client configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	showCmd := &cobra.Command{
		Use:           "show",
		Short:         "Display the effective configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConfigShow,
	}

	initCmd := &cobra.Command{
		Use:           "init",
		Short:         "Create a default configuration file",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	initCmd.Flags().Bool("device", false, "Seed device_id with a freshly generated identifier")

	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(initCmd)
	return configCmd
}

func resolveConfigPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("config")
	if strings.TrimSpace(path) != "" {
		return path, nil
	}
	return defaultConfigPath()
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := newOutputFormatter(cmd)

	path, err := resolveConfigPath(cmd)
	if err != nil {
		return out.Error("Failed to resolve configuration path", err)
	}

	cfg, err := config.LoadOrDefault(path, false)
	if err != nil {
		return out.Error("Failed to load configuration", err)
	}

	_, statErr := os.Stat(path)
	info := map[string]interface{}{
		"path":               path,
		"exists":             statErr == nil,
		"url":                cfg.URL,
		"heartbeat_interval": cfg.HeartbeatInterval,
	}
	if cfg.DeviceID != "" {
		info["device_id"] = cfg.DeviceID
	}
	if cfg.Mount != "" {
		info["mount"] = cfg.Mount
	}
	if cfg.ReconnectInterval != "" {
		info["reconnect_interval"] = cfg.ReconnectInterval
	}
	return out.Print(info)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	out := newOutputFormatter(cmd)

	path, err := resolveConfigPath(cmd)
	if err != nil {
		return out.Error("Failed to resolve configuration path", err)
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return out.Error("Configuration file already exists (use --force to overwrite)", nil)
	}

	cfg := config.Default()
	if withDevice, _ := cmd.Flags().GetBool("device"); withDevice {
		cfg.DeviceID = uuid.NewString()
	}

	if err := config.Save(cfg, path); err != nil {
		return out.Error("Failed to write configuration", err)
	}

	info := map[string]interface{}{
		"path": path,
		"url":  cfg.URL,
	}
	if cfg.DeviceID != "" {
		info["device_id"] = cfg.DeviceID
	}
	return out.Success("Configuration file created", info)
}
