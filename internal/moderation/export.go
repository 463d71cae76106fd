package moderation

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/lenninsorteos/sorteo/internal/model"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{"Ticket", "Nombre", "DNI", "WhatsApp", "Region", "Monto", "Estado", "Fecha"}

// ExportCSV serializes a ticket collection as CSV: the fixed header row
// followed by one row per ticket. Monto is the literal token N/A when
// the server detected no amount; Fecha uses the dd/mm/yyyy convention
// the exported spreadsheets have always used.
func ExportCSV(w io.Writer, tickets []model.TicketRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, t := range tickets {
		row := []string{
			t.TicketID,
			t.Nombre,
			t.DNI,
			t.WhatsApp,
			t.Region,
			t.MontoDisplay(),
			string(t.Estado),
			formatFecha(t.FechaRegistro),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", t.TicketID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// DefaultExportName returns the conventional export filename for a given
// day, e.g. "sorteo_2026-09-01.csv".
func DefaultExportName(now time.Time) string {
	return "sorteo_" + now.Format("2006-01-02") + ".csv"
}

func formatFecha(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04:05")
}
