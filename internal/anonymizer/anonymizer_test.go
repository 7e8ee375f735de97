package anonymizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeDeterminista(t *testing.T) {
	a := Anonymize("Gigguk", "s1")
	b := Anonymize("Gigguk", "s1")
	assert.Equal(t, a, b)
	assert.Len(t, a, IDLength)
}

func TestAnonymizeNormalizaUsername(t *testing.T) {
	// trim + lowercase antes de hashear
	assert.Equal(t, Anonymize("Gigguk", "s1"), Anonymize(" gigguk ", "s1"))
	assert.Equal(t, Anonymize("GIGGUK", "s1"), Anonymize("gigguk", "s1"))
}

func TestAnonymizeSensibleAlSalt(t *testing.T) {
	assert.NotEqual(t, Anonymize("Gigguk", "s1"), Anonymize("Gigguk", "s2"))
}

func TestAnonymizeUsuariosDistintos(t *testing.T) {
	assert.NotEqual(t, Anonymize("userA", "s1"), Anonymize("userB", "s1"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "gigguk", Normalize("  GigGuk \t"))
	assert.Equal(t, "", Normalize("   "))
}
