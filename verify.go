package mklhs

import (
	"fmt"

	bls "github.com/cloudflare/circl/ecc/bls12381"
	"github.com/etclab/ncircl/util/blspairing"
)

// Verify checks that agg authenticates y as the output of f over values
// signed by the keys in pks (keyed by signer identity). The check is
//
//	e(Gamma, g2) = prod over signers j of
//	               e(sum over j's terms of c_i*H(l_i) + mu_j*g1, pk_j)
//
// together with y = sum_j mu_j. Verify returns nil on acceptance and
// ErrVerificationFailed on any mismatch: a tampered Gamma, coefficient, or
// partial result, a substituted public key, or a wrong claimed result all
// reject through the same single value. A signer named by f with no entry
// in pks is a contract violation (ErrMissingPublicKey), not a rejection.
func Verify(pp *PublicParams, f *LinearFunction, pks map[string]*PublicKey, agg *Aggregate, y *bls.Scalar) error {
	ids := f.SignerIDs()
	if len(ids) != len(agg.Mus) {
		return ErrVerificationFailed
	}

	// sum of c_i*H(l_i) per signer, in the function's term order
	points := make(map[string]*bls.G1)
	for _, t := range f.Terms {
		h := pp.HashLabel(t.Label)
		ch := new(bls.G1)
		ch.ScalarMult(t.Coeff, h)
		p, ok := points[t.Label.ID]
		if !ok {
			p = blspairing.NewG1Identity()
			points[t.Label.ID] = p
		}
		p.Add(p, ch)
	}

	total := new(bls.Scalar)
	total.SetUint64(0)

	expect := blspairing.NewGtIdentity()
	for _, id := range ids {
		pk, ok := pks[id]
		if !ok || pk.ID != id {
			return fmt.Errorf("%w: %s", ErrMissingPublicKey, id)
		}
		mu, ok := agg.Mus[id]
		if !ok {
			return ErrVerificationFailed
		}
		total.Add(total, mu)

		p := points[id]
		gm := new(bls.G1)
		gm.ScalarMult(mu, pp.G1)
		p.Add(p, gm)

		expect.Mul(bls.Pair(p, pk.V), expect)
	}

	if total.IsEqual(y) == 0 {
		return ErrVerificationFailed
	}

	got := bls.Pair(agg.Gamma, pp.G2)
	if !got.IsEqual(expect) {
		return ErrVerificationFailed
	}

	return nil
}
