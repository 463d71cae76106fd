package model

// Regions is the fixed set of 25 Peruvian administrative regions accepted
// as a registration field, in the order the UI presents them.
var Regions = []string{
	"Amazonas", "Ancash", "Apurimac", "Arequipa", "Ayacucho",
	"Cajamarca", "Callao", "Cusco", "Huancavelica", "Huanuco",
	"Ica", "Junin", "La Libertad", "Lambayeque", "Lima",
	"Loreto", "Madre de Dios", "Moquegua", "Pasco", "Piura",
	"Puno", "San Martin", "Tacna", "Tumbes", "Ucayali",
}

// ValidRegion reports whether name is one of the 25 known regions. The
// comparison is exact: region names travel verbatim between client and
// server.
func ValidRegion(name string) bool {
	for _, r := range Regions {
		if r == name {
			return true
		}
	}
	return false
}
