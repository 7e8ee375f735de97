package anonymizer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// IDLength: 24 hex = 96 bits, suficiente para no chocar con poblaciones
// realistas y corto para guardar en Mongo.
const IDLength = 24

// Normalize deja el username listo para hashear y para dedup: trim + lower.
func Normalize(rawUsername string) string {
	return strings.ToLower(strings.TrimSpace(rawUsername))
}

// Anonymize mapea (username, salt) -> id anónimo estable.
// Mismo par => mismo id. Cambiar el salt crea un espacio de identidades
// disjunto sin migración (decisión de privacidad, la maneja el caller).
func Anonymize(rawUsername, salt string) string {
	sum := sha256.Sum256([]byte(salt + ":" + Normalize(rawUsername)))
	return hex.EncodeToString(sum[:])[:IDLength]
}
