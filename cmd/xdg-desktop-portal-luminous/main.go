package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/broker"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/capture"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/config"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/eis"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/logging"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/rpc"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/session"
)

var (
	version = "0.1.0"
	cfgFile string
	replace bool
	verbose bool
)

var log = logging.L("main")

var rootCmd = &cobra.Command{
	Use:   "xdg-desktop-portal-luminous",
	Short: "xdg-desktop-portal backend for the luminous compositor",
	Long: `xdg-desktop-portal-luminous bridges sandboxed applications to a
Wayland compositor, exposing the Screenshot, ScreenCast, RemoteDesktop,
InputCapture and Access portal interfaces over the session bus.`,
	Run: func(cmd *cobra.Command, args []string) {
		run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("xdg-desktop-portal-luminous v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/xdg-desktop-portal-luminous/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&replace, "replace", false, "replace an already-running instance on the bus")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if replace {
		cfg.Replace = true
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	logging.Init(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	log = logging.L("main")

	log.Info("starting", "version", version)

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Error("failed to connect to session bus", logging.KeyError, err)
		os.Exit(1)
	}
	defer conn.Close()

	busName := "org.freedesktop.impl.portal.desktop.luminous" + cfg.BusNameSuffix
	nameFlags := dbus.NameFlagDoNotQueue
	if cfg.Replace {
		nameFlags |= dbus.NameFlagReplaceExisting | dbus.NameFlagAllowReplacement
	}
	reply, err := conn.RequestName(busName, nameFlags)
	if err != nil {
		log.Error("failed to request bus name", "name", busName, logging.KeyError, err)
		os.Exit(1)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		log.Error("bus name already owned, use --replace to take over", "name", busName)
		os.Exit(1)
	}

	registry := session.NewRegistry()
	selBroker := broker.NewHeadless(cfg.HeadlessSocketPathOrDefault())
	eisSrv := eis.NewServer()
	eisSrv.Start()
	defer eisSrv.Stop()

	exporter := rpc.NewConnExporter(conn)
	dispatcher := rpc.New(registry, selBroker, capture.Unimplemented{}, capture.Unimplemented{}, newInputFactory(), eisSrv, exporter)

	if err := dispatcher.ExportAll(); err != nil {
		log.Error("failed to export portal interfaces", logging.KeyError, err)
		os.Exit(1)
	}

	dispatcher.StartEISConsumer()

	if err := dispatcher.WithAppearance(appearanceConfigPath()); err != nil {
		log.Warn("appearance watcher did not start, SettingChanged will not fire", logging.KeyError, err)
	}

	log.Info("serving", "bus_name", busName, "object_path", rpc.ObjectPathBase)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
}

// appearanceConfigPath resolves the Appearance config.toml location
// (§6.7); config.Load covers process-lifetime settings only, so this is
// kept separate from internal/config (see internal/config's own package
// doc).
func appearanceConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "xdg-desktop-portal-luminous", "config.toml")
}
