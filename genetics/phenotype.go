package genetics

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// FloatGene maps a gene's expression level onto [0, multiplier].
// Values are immutable: a new phenotype needs a new FloatGene.
type FloatGene struct {
	gene       Gene
	multiplier float64
	offset     float64
	phenotype  float64
}

// NewFloatGene panics if multiplier <= 0 or offset < 0.
func NewFloatGene(gene Gene, multiplier, offset float64) FloatGene {
	if multiplier <= 0 {
		panic(fmt.Sprintf("genetics: float gene multiplier must be > 0, got %v", multiplier))
	}
	if offset < 0 {
		panic(fmt.Sprintf("genetics: float gene offset must be >= 0, got %v", offset))
	}
	expr := gene.ExpressionLevel() + offset
	if expr > 1 {
		expr = 1
	} else if expr < 0 {
		expr = 0
	}
	return FloatGene{
		gene:       gene,
		multiplier: multiplier,
		offset:     offset,
		phenotype:  multiplier * expr,
	}
}

// Phenotype returns the cached trait value.
func (f FloatGene) Phenotype() float64 { return f.phenotype }

// Gene returns the underlying gene.
func (f FloatGene) Gene() Gene { return f.gene }

// Multiplier returns the configured multiplier.
func (f FloatGene) Multiplier() float64 { return f.multiplier }

// Offset returns the configured offset.
func (f FloatGene) Offset() float64 { return f.offset }

// MixedWith crosses the underlying genes and keeps the receiver's scaling.
func (f FloatGene) MixedWith(other FloatGene, rng *rand.Rand) FloatGene {
	return NewFloatGene(f.gene.CrossWith(other.gene, rng), f.multiplier, f.offset)
}

// WithGene rebuilds the phenotype for a new gene using the same scaling.
func (f FloatGene) WithGene(g Gene) FloatGene {
	return NewFloatGene(g, f.multiplier, f.offset)
}

// IntGene maps a gene's expression level onto [min, max].
type IntGene struct {
	gene      Gene
	minValue  int
	maxValue  int
	phenotype int
}

// NewIntGene panics if maxValue < minValue.
func NewIntGene(gene Gene, minValue, maxValue int) IntGene {
	if maxValue < minValue {
		panic(fmt.Sprintf("genetics: int gene max (%d) < min (%d)", maxValue, minValue))
	}
	span := float64(maxValue - minValue)
	return IntGene{
		gene:      gene,
		minValue:  minValue,
		maxValue:  maxValue,
		phenotype: minValue + int(math.Floor(gene.ExpressionLevel()*span)),
	}
}

// Phenotype returns the cached trait value.
func (i IntGene) Phenotype() int { return i.phenotype }

// Gene returns the underlying gene.
func (i IntGene) Gene() Gene { return i.gene }

// Bounds returns the configured min and max values.
func (i IntGene) Bounds() (minValue, maxValue int) { return i.minValue, i.maxValue }

// MixedWith crosses the underlying genes and keeps the receiver's bounds.
func (i IntGene) MixedWith(other IntGene, rng *rand.Rand) IntGene {
	return NewIntGene(i.gene.CrossWith(other.gene, rng), i.minValue, i.maxValue)
}

// WithGene rebuilds the phenotype for a new gene using the same bounds.
func (i IntGene) WithGene(g Gene) IntGene {
	return NewIntGene(g, i.minValue, i.maxValue)
}
