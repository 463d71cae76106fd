package model

import "testing"

func TestEstado(t *testing.T) {
	if !EstadoRevision.Valid() || !EstadoAprobado.Valid() || !EstadoRechazado.Valid() {
		t.Error("known states must be valid")
	}
	if Estado("pendiente").Valid() {
		t.Error("unknown state must be invalid")
	}
	if EstadoRevision.Terminal() {
		t.Error("revision is not terminal")
	}
	if !EstadoAprobado.Terminal() || !EstadoRechazado.Terminal() {
		t.Error("aprobado and rechazado are terminal")
	}
}

func TestMontoDisplay(t *testing.T) {
	if got := (TicketRecord{}).MontoDisplay(); got != "N/A" {
		t.Errorf("nil monto = %q, want N/A", got)
	}
	monto := 25.5
	if got := (TicketRecord{MontoDetectado: &monto}).MontoDisplay(); got != "25.50" {
		t.Errorf("monto = %q, want 25.50", got)
	}
}

func TestValidRegion(t *testing.T) {
	if !ValidRegion("Cusco") || !ValidRegion("Madre de Dios") {
		t.Error("known regions must validate")
	}
	if ValidRegion("Narnia") || ValidRegion("") {
		t.Error("unknown regions must not validate")
	}
	if len(Regions) != 25 {
		t.Errorf("expected 25 regions, got %d", len(Regions))
	}
}
