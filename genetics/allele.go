// Package genetics provides the byte-allele genome and the phenotype genes
// that map a gene's expression level to a concrete trait value.
package genetics

import "math/rand/v2"

// AlleleType determines how an allele competes with its partner.
type AlleleType uint8

const (
	Dominant AlleleType = iota
	Recessive
)

// String returns the display name for an AlleleType.
func (t AlleleType) String() string {
	switch t {
	case Dominant:
		return "Dominant"
	case Recessive:
		return "Recessive"
	default:
		return "Unknown"
	}
}

// MutationBit is the bit flipped by Allele.Mutate.
const MutationBit byte = 0x80

// Allele is one of the two hereditary byte sequences composing a Gene.
type Allele struct {
	Type  AlleleType
	Bytes []byte
}

// NewAllele creates a single-byte allele expressing roughly fraction.
func NewAllele(t AlleleType, fraction float64) Allele {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	return Allele{Type: t, Bytes: []byte{byte(fraction*255 + 0.5)}}
}

// ExpressionLevel returns mean(bytes)/255, in [0, 1].
func (a Allele) ExpressionLevel() float64 {
	if len(a.Bytes) == 0 {
		return 0
	}
	var sum int
	for _, b := range a.Bytes {
		sum += int(b)
	}
	return float64(sum) / float64(len(a.Bytes)) / 255
}

// Clone returns a deep copy so children never share byte storage with parents.
func (a Allele) Clone() Allele {
	bytes := make([]byte, len(a.Bytes))
	copy(bytes, a.Bytes)
	return Allele{Type: a.Type, Bytes: bytes}
}

// Mutate flips MutationBit in one randomly chosen byte.
func (a *Allele) Mutate(rng *rand.Rand) {
	if len(a.Bytes) == 0 {
		return
	}
	a.Bytes[rng.IntN(len(a.Bytes))] ^= MutationBit
}

// GrowLength appends a zero byte. Alleles never shrink.
func (a *Allele) GrowLength() {
	a.Bytes = append(a.Bytes, 0)
}
