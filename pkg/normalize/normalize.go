package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PartNoNone valor normalizado para referencias de fabricante vacías.
// Permite que (empresa, nombre, part_no) sea clave única aunque part_no falte.
const PartNoNone = "none"

// quitar marcas diacríticas: NFD -> eliminar Mn -> NFC
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key normaliza un nombre de producto para matching insensible a mayúsculas y tildes
// ("Tornillería M8" y "tornilleria m8" resuelven al mismo registro maestro).
func Key(name string) string {
	s, _, err := transform.String(stripAccents, name)
	if err != nil {
		s = name
	}
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// PartNo normaliza la referencia de fabricante: recorta espacios, pasa a minúsculas
// y mapea vacío a "none".
func PartNo(partNo string) string {
	s := strings.ToLower(strings.TrimSpace(partNo))
	if s == "" {
		return PartNoNone
	}
	return s
}
