package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-ctx/framework/app"
)

var version = "dev"

type rootOptions struct {
	envFiles []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "ctxd",
		Short:        "Inspect and serve a lazy singleton container",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringSliceVarP(&opts.envFiles, "env", "e", nil,
		"env files to load (default: .env)")

	root.AddCommand(
		newServeCmd(opts),
		newTypesCmd(opts),
		newResolveCmd(opts),
		newPrintCmd(opts),
	)
	return root
}

// bootstrap builds the application with the demo providers and boots it.
func bootstrap(opts *rootOptions) (*app.Application, error) {
	a, err := app.New(opts.envFiles...)
	if err != nil {
		return nil, err
	}
	if err := a.Register(&DemoProvider{}); err != nil {
		return nil, err
	}
	if err := a.Register(&SequenceProvider{}); err != nil {
		return nil, err
	}
	if err := a.Boot(); err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}
	return a, nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the inspection endpoints until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
}

func newTypesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List resolvable type names",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			for _, name := range a.Types.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "resolve NAME...",
		Short: "Resolve names through the root container and print what came back",
		Long: `Resolve each NAME with Get (or Create with --new) and print one JSON
line per name with its type identity and address.

Examples:
  ctxd resolve stopwatch stopwatch     # same addr twice
  ctxd resolve --new stopwatch         # a fresh instance
  ctxd resolve sequence                # loads the deferred provider`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			lookup := a.Container.GetNamed
			if fresh {
				lookup = a.Container.CreateNamed
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, name := range args {
				v, err := lookup(name)
				if err != nil {
					return err
				}
				if err := enc.Encode(app.Describe(v)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fresh, "new", false, "create a fresh instance instead of the memoized one")
	return cmd
}

func newPrintCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the root container snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(opts)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(a.Container.Snapshot())
			}
			return a.Container.Print(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
