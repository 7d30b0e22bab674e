package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a short link and print its code",
		Example: `  shortener create --url "https://go.dev/doc/"
  shortener create --url "https://go.dev/doc/" --code godoc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			longURL, _ := cmd.Flags().GetString("url")
			code, _ := cmd.Flags().GetString("code")

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			code, err = store.CreateLink(cmd.Context(), longURL, code)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}

	cmd.Flags().StringP("url", "u", "", "destination URL")
	cmd.Flags().StringP("code", "c", "", "short code to use instead of a generated one")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every short link, ordered by code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			table, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, rec := range table.Records() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.Code, rec.Destination)
			}

			return nil
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve CODE",
		Short: "Print the destination of a short code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			dest, found, err := store.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("short code %q not found", args[0])
			}

			fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		},
	}
}
