package mklhs

import (
	"fmt"

	bls "github.com/cloudflare/circl/ecc/bls12381"
	"github.com/etclab/ncircl/util/blspairing"
)

// Aggregate authenticates one linear combination of signed values: the
// combined G1 element and, per contributing signer, the partial result
// sum(c_i * m_i) over that signer's terms. The partials reveal exactly the
// per-signer contributions the linear function already discloses; no secret
// key material enters an Aggregate.
type Aggregate struct {
	Gamma *bls.G1
	Mus   map[string]*bls.Scalar
}

func NewAggregate() *Aggregate {
	agg := new(Aggregate)
	agg.Gamma = blspairing.NewG1Identity()
	agg.Mus = make(map[string]*bls.Scalar)
	return agg
}

func (agg *Aggregate) Clone() *Aggregate {
	newAgg := NewAggregate()
	newAgg.Gamma = blspairing.CloneG1(agg.Gamma)
	for id, mu := range agg.Mus {
		newAgg.Mus[id] = blspairing.CloneScalar(mu)
	}
	return newAgg
}

// Result returns the combined value y = sum over signers of the partial
// results.
func (agg *Aggregate) Result() *bls.Scalar {
	y := new(bls.Scalar)
	y.SetUint64(0)
	for _, mu := range agg.Mus {
		y.Add(y, mu)
	}
	return y
}

// Eval combines sign shares under the linear function f:
//
//	Gamma   = sum_i c_i * gamma_i
//	Mus[id] = sum over i owned by id of c_i * mu_i
//
// Every term of f must have a matching share; a term with no share is a
// contract violation reported as ErrMissingSignature. Extra shares are
// ignored. A zero coefficient contributes the identity, which effectively
// omits the term. Eval never touches a secret key.
func Eval(_ *PublicParams, f *LinearFunction, shares []*SignShare) (*Aggregate, error) {
	byLabel := make(map[Label]*SignShare)
	for _, s := range shares {
		byLabel[s.Label] = s
	}

	agg := NewAggregate()
	for _, t := range f.Terms {
		s, ok := byLabel[t.Label]
		if !ok {
			return nil, fmt.Errorf("%w: (%s, %s)", ErrMissingSignature, t.Label.ID, t.Label.Tag)
		}

		cg := new(bls.G1)
		cg.ScalarMult(t.Coeff, s.Sig.Gamma)
		agg.Gamma.Add(agg.Gamma, cg)

		cm := new(bls.Scalar)
		cm.Mul(t.Coeff, s.Mu)
		mu, ok := agg.Mus[t.Label.ID]
		if !ok {
			mu = new(bls.Scalar)
			mu.SetUint64(0)
			agg.Mus[t.Label.ID] = mu
		}
		mu.Add(mu, cm)
	}

	return agg, nil
}

// Merge combines already-combined aggregates with outer coefficients,
// yielding the aggregate Eval would produce for the composed function (see
// Compose). This is the scheme's homomorphism applied a second time.
func Merge(_ *PublicParams, coeffs []*bls.Scalar, aggs []*Aggregate) (*Aggregate, error) {
	if len(coeffs) != len(aggs) {
		return nil, ErrLengthMismatch
	}
	if len(aggs) == 0 {
		return nil, ErrEmptyInput
	}

	out := NewAggregate()
	for k, agg := range aggs {
		cg := new(bls.G1)
		cg.ScalarMult(coeffs[k], agg.Gamma)
		out.Gamma.Add(out.Gamma, cg)

		for id, mu := range agg.Mus {
			cm := new(bls.Scalar)
			cm.Mul(coeffs[k], mu)
			acc, ok := out.Mus[id]
			if !ok {
				acc = new(bls.Scalar)
				acc.SetUint64(0)
				out.Mus[id] = acc
			}
			acc.Add(acc, cm)
		}
	}
	return out, nil
}
