package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lenninsorteos/sorteo/internal/model"
	"github.com/lenninsorteos/sorteo/internal/moderation"
)

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			reader := bufio.NewReader(os.Stdin)
			if email == "" {
				fmt.Print("Correo: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Contraseña: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimSpace(line)
			}
			if err := a.session.Login(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("credenciales incorrectas")
			}
			fmt.Println("Sesión iniciada")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Administrator email")
	cmd.Flags().StringVar(&password, "password", "", "Administrator password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.session.Logout()
			fmt.Println("Sesión cerrada")
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var dniFilter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submitted tickets (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if err := a.view.Refresh(cmd.Context()); err != nil {
				return err
			}
			tickets := a.view.FilterByDNI(dniFilter)
			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "TICKET\tNOMBRE\tDNI\tWHATSAPP\tREGION\tMONTO\tESTADO")
			for _, t := range tickets {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.TicketID, t.Nombre, t.DNI, t.WhatsApp, t.Region, t.MontoDisplay(), t.Estado)
			}
			return writer.Flush()
		},
	}
	cmd.Flags().StringVar(&dniFilter, "dni", "", "Show only tickets whose DNI contains this substring")
	return cmd
}

// newStatusCmd builds the approve and reject commands, which differ only
// in the target estado.
func newStatusCmd(use, short string) *cobra.Command {
	estado := model.EstadoAprobado
	if use == "reject" {
		estado = model.EstadoRechazado
	}
	return &cobra.Command{
		Use:   use + " <ticket-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAdmin(); err != nil {
				return err
			}
			// Refresh first so the terminal-record policy sees current state.
			if err := a.view.Refresh(cmd.Context()); err != nil {
				return err
			}
			update, err := a.view.SetStatus(cmd.Context(), args[0], estado)
			if err != nil {
				return err
			}
			if update.Warning != "" {
				fmt.Fprintf(os.Stderr, "aviso: %s\n", update.Warning)
			}
			fmt.Println("Estado actualizado")
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ticket counts by status (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if err := a.view.Refresh(cmd.Context()); err != nil {
				return err
			}
			stats := a.view.Stats()
			fmt.Printf("Total:      %d\n", stats.Total)
			fmt.Printf("Aprobados:  %d\n", stats.Aprobados)
			fmt.Printf("Rechazados: %d\n", stats.Rechazados)
			fmt.Printf("Revisión:   %d\n", stats.Revision)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tickets as CSV (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAdmin(); err != nil {
				return err
			}
			if err := a.view.Refresh(cmd.Context()); err != nil {
				return err
			}
			if output == "" {
				output = moderation.DefaultExportName(time.Now())
			}
			if output == "-" {
				return moderation.ExportCSV(os.Stdout, a.view.Tickets())
			}
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer file.Close()
			if err := moderation.ExportCSV(file, a.view.Tickets()); err != nil {
				return err
			}
			fmt.Printf("Exportado a %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default sorteo_<date>.csv, \"-\" for stdout)")
	return cmd
}
