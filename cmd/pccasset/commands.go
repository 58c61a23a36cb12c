package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pccasset "github.com/flywave/go-pccasset"
)

// payloadCmd builds a subcommand that prints one operation's payload.
func (a *app) payloadCmd(use, short string, args cobra.PositionalArgs, run func(e *pccasset.Extractor, args []string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.extractor()
			if err != nil {
				return err
			}
			payload, err := run(e, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), payload)
			return nil
		},
	}
}

func (a *app) locationsCmd() *cobra.Command {
	return a.payloadCmd("locations <package>", "List a level package and its additional packages", cobra.ExactArgs(1),
		func(e *pccasset.Extractor, args []string) (string, error) {
			return e.Locations(args[0])
		})
}

func (a *app) staticCmd() *cobra.Command {
	return a.payloadCmd("static <package>", "List static mesh names", cobra.ExactArgs(1),
		func(e *pccasset.Extractor, args []string) (string, error) {
			return e.StaticMeshNames(args[0])
		})
}

func (a *app) actorsCmd() *cobra.Command {
	return a.payloadCmd("actors <package>", "List static mesh actors and their transforms", cobra.ExactArgs(1),
		func(e *pccasset.Extractor, args []string) (string, error) {
			return e.Actors(args[0])
		})
}

func (a *app) bonesCmd() *cobra.Command {
	return a.payloadCmd("bones <package> <skeletal-mesh>", "List the reference skeleton of a skeletal mesh", cobra.ExactArgs(2),
		func(e *pccasset.Extractor, args []string) (string, error) {
			return e.Bones(args[0], args[1])
		})
}

func (a *app) animationsCmd() *cobra.Command {
	return a.payloadCmd("animations <package>", "Dump every animation sequence", cobra.ExactArgs(1),
		func(e *pccasset.Extractor, args []string) (string, error) {
			return e.Animations(args[0])
		})
}

func (a *app) exportCmd() *cobra.Command {
	var req pccasset.ExportRequest
	cmd := a.payloadCmd("export <package> <static-mesh>", "Export a static mesh and print its materials", cobra.ExactArgs(2),
		func(e *pccasset.Extractor, args []string) (string, error) {
			req.Package = args[0]
			req.Mesh = args[1]
			return e.ExportStaticMesh(req)
		})
	cmd.Flags().StringVar(&req.Format, "ext", pccasset.MST, "mesh format (mst is written in-process, others use the external exporter)")
	cmd.Flags().StringVar(&req.ExporterPath, "exporter", "", "external mesh exporter (default from config)")
	cmd.Flags().StringVar(&req.OutDir, "out", ".", "mesh output directory")
	cmd.Flags().StringVar(&req.TexturesDir, "tex", "", "texture output directory (empty skips texture files)")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction operations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.extractor()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = a.cfg.Listen
			}
			return pccasset.Serve(cmd.Context(), listen, e)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cfg.Write(cmd.OutOrStdout())
		},
	}
}
