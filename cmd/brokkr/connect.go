package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brokkr-rpc/brokkr/internal/client"
	"github.com/brokkr-rpc/brokkr/internal/config"
)

func newConnectCommand() *cobra.Command {
	connectCmd := &cobra.Command{
		Use:           "connect",
		Short:         "Connect to the broker and authenticate",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConnect,
	}
	connectCmd.Flags().String("url", "", "Broker URL (overrides the configuration file)")
	connectCmd.Flags().String("user", "", "Login user")
	connectCmd.Flags().String("password", "", "Login password (prompted when omitted)")
	connectCmd.Flags().String("device-id", "", "Device identifier to present to the broker")
	connectCmd.Flags().String("mount", "", "Mount point to present when no device id is set")
	return connectCmd
}

func runConnect(cmd *cobra.Command, _ []string) error {
	out := newOutputFormatter(cmd)

	path, _ := cmd.Flags().GetString("config")
	if strings.TrimSpace(path) == "" {
		resolved, err := defaultConfigPath()
		if err != nil {
			return out.Error("Failed to resolve configuration path", err)
		}
		path = resolved
	}

	cfg, err := config.LoadOrDefault(path, false)
	if err != nil {
		return out.Error("Failed to load configuration", err)
	}

	if v, _ := cmd.Flags().GetString("url"); strings.TrimSpace(v) != "" {
		cfg.URL = strings.TrimSpace(v)
	}
	if v, _ := cmd.Flags().GetString("device-id"); strings.TrimSpace(v) != "" {
		cfg.DeviceID = strings.TrimSpace(v)
	}
	if v, _ := cmd.Flags().GetString("mount"); strings.TrimSpace(v) != "" {
		cfg.Mount = strings.TrimSpace(v)
	}

	user, _ := cmd.Flags().GetString("user")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password, err = promptPassword()
		if err != nil {
			return out.Error("Failed to read password", err)
		}
	}

	params, err := cfg.LoginParams(strings.TrimSpace(user), password)
	if err != nil {
		return out.Error("Invalid configuration", err)
	}

	c, err := client.Connect(cmd.Context(), cfg.URL, params)
	if err != nil {
		return out.Error("Failed to connect", err)
	}
	defer func() { _ = c.Close() }()

	return out.Success(fmt.Sprintf("Connected to %s", cfg.URL), map[string]interface{}{
		"url":       cfg.URL,
		"client_id": c.ClientID(),
	})
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal; pass --password")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
