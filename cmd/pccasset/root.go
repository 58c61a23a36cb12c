package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	pccasset "github.com/flywave/go-pccasset"
	"github.com/flywave/go-pccasset/config"
	"github.com/flywave/go-pccasset/upk"
)

type app struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pccasset",
		Short: "Extract meshes, materials and animations from decoded game packages",
		Long: `pccasset reads decoded game packages and prints static mesh, material,
actor, bone and animation data in the flat '#', '%', '$' text format used by
the importer scripts. "pccasset serve" exposes the same operations over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./pccasset.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.locationsCmd(),
		a.staticCmd(),
		a.exportCmd(),
		a.actorsCmd(),
		a.bonesCmd(),
		a.animationsCmd(),
		a.serveCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "pccasset",
		ReportTimestamp: true,
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if a.verbose {
		level = log.DebugLevel
	}
	a.logger.SetLevel(level)
	return nil
}

// extractor scans the configured game directories and wires the dump opener.
func (a *app) extractor() (*pccasset.Extractor, error) {
	games, err := pccasset.ScanGames(a.cfg.Games)
	if err != nil {
		return nil, fmt.Errorf("scan game directories: %w", err)
	}
	for game, files := range games {
		a.logger.Debug("loaded files", "game", game, "packages", len(files))
	}
	e := pccasset.NewExtractor(upk.DumpOpener{}, games, a.logger)
	e.TextureFormat = a.cfg.TextureFormat
	e.ExporterPath = a.cfg.ExporterPath
	e.DefaultGame = a.cfg.DefaultGame
	return e, nil
}
