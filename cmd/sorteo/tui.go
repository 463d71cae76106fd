package main

import (
	"github.com/spf13/cobra"

	"github.com/lenninsorteos/sorteo/internal/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		Long: `tui opens the full-screen interface: registration form, public ticket
search, and the admin dashboard and participants table after login.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return tui.New(a.client, a.session, a.form, a.view).Run()
		},
	}
}
