package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lenninsorteos/sorteo/internal/model"
)

func newRegisterCmd() *cobra.Command {
	var (
		nombre      string
		dni         string
		whatsapp    string
		region      string
		comprobante string
		acepta      bool
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a raffle ticket",
		Long: `Register submits a ticket with your personal data and a payment-proof
image. All fields are validated locally before anything is sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			for name, value := range map[string]string{
				"nombre":   nombre,
				"dni":      dni,
				"whatsapp": whatsapp,
				"region":   region,
			} {
				if err := a.form.SetField(name, value); err != nil {
					return err
				}
			}
			a.form.SetConsent(acepta)
			if comprobante != "" {
				if err := a.form.SelectProofImageFile(comprobante); err != nil {
					return err
				}
			}
			created, err := a.form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Registro exitoso\n")
			fmt.Printf("  Ticket: %s\n", created.TicketID)
			fmt.Printf("  Estado: %s\n", created.Estado)
			return nil
		},
	}
	cmd.Flags().StringVar(&nombre, "nombre", "", "Full name of the registrant")
	cmd.Flags().StringVar(&dni, "dni", "", "National ID, exactly 8 digits")
	cmd.Flags().StringVar(&whatsapp, "whatsapp", "", "WhatsApp number, exactly 9 digits")
	cmd.Flags().StringVar(&region, "region", "", "One of the 25 regions (see `sorteo register regions`)")
	cmd.Flags().StringVar(&comprobante, "comprobante", "", "Path to the payment-proof image (JPG/PNG/WEBP, max 5 MB)")
	cmd.Flags().BoolVar(&acepta, "acepta-terminos", false, "Accept the raffle terms")

	cmd.AddCommand(&cobra.Command{
		Use:   "regions",
		Short: "List the accepted regions",
		Run: func(cmd *cobra.Command, args []string) {
			for _, r := range model.Regions {
				fmt.Println(r)
			}
		},
	})
	return cmd
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <dni>",
		Short: "Find your tickets by DNI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			tickets, err := a.view.SearchByDNIExact(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(tickets) == 0 {
				fmt.Println("No hay tickets registrados con ese DNI")
				return nil
			}
			for _, t := range tickets {
				fmt.Printf("%s  %s  %s\n", t.TicketID, t.Nombre, t.Estado)
				if t.ComprobanteURL != "" {
					fmt.Printf("  comprobante: %s\n", a.client.ComprobanteURL(t))
				}
			}
			return nil
		},
	}
	return cmd
}
