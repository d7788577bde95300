package genetics

import "math/rand/v2"

// Gene is a pair of alleles.
type Gene struct {
	First  Allele
	Second Allele
}

// NewGene builds a heterozygous Dominant/Recessive pair that both express
// initialFraction.
func NewGene(initialFraction float64) Gene {
	return Gene{
		First:  NewAllele(Dominant, initialFraction),
		Second: NewAllele(Recessive, initialFraction),
	}
}

// ExpressionLevel returns the dominant allele's level when the alleles differ
// in type, and the mean of both levels otherwise (codominance).
func (g Gene) ExpressionLevel() float64 {
	if g.First.Type != g.Second.Type {
		if g.First.Type == Dominant {
			return g.First.ExpressionLevel()
		}
		return g.Second.ExpressionLevel()
	}
	return (g.First.ExpressionLevel() + g.Second.ExpressionLevel()) / 2
}

// CrossWith picks one allele from g and one from other, each 50/50.
// Alleles are copied whole; they are never blended.
func (g Gene) CrossWith(other Gene, rng *rand.Rand) Gene {
	return Gene{
		First:  g.pick(rng).Clone(),
		Second: other.pick(rng).Clone(),
	}
}

// Mutated returns a copy of g where each allele mutates with probability chance.
func (g Gene) Mutated(rng *rand.Rand, chance float64) Gene {
	out := Gene{First: g.First.Clone(), Second: g.Second.Clone()}
	if chance <= 0 {
		return out
	}
	if rng.Float64() < chance {
		out.First.Mutate(rng)
	}
	if rng.Float64() < chance {
		out.Second.Mutate(rng)
	}
	return out
}

func (g Gene) pick(rng *rand.Rand) Allele {
	if rng.IntN(2) == 0 {
		return g.First
	}
	return g.Second
}
