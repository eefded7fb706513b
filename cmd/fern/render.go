package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fernweh-dev/fern/internal/config"
	"github.com/fernweh-dev/fern/pkg/app"
	"github.com/fernweh-dev/fern/pkg/content"
)

func renderCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "render <route>",
		Short: "Render one fragment to stdout",
		Long: `Render the fragment for a route against the project's data
payload and print the resulting markup.

Useful for static generation and for checking what a fragment
renders to without starting the server.

Examples:
  fern render home
  fern render about --dir=./site`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(dir, args[0])
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory")

	return cmd
}

func runRender(dir, route string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	loader := content.NewDisk(cfg.FragmentsPath(), cfg.DataPath())
	a := app.New(loader,
		app.WithDefaultRoute(cfg.Route),
		app.WithTheme(cfg.Theme),
	)
	names, err := loader.Fragments()
	if err != nil {
		return err
	}
	a.RegisterFragments(names)

	ctx := context.Background()
	a.LoadData(ctx)
	if err := a.Navigate(ctx, route); err != nil {
		return err
	}

	fmt.Println(a.HTML())
	return nil
}
