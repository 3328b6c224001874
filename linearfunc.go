package mklhs

import (
	"encoding/binary"

	bls "github.com/cloudflare/circl/ecc/bls12381"
	"github.com/etclab/ncircl/util/blspairing"
)

// Label names one signer's data item: the signer identity and a tag that is
// unique per data item under that identity.
type Label struct {
	ID  string
	Tag string
}

// Bytes is the hash input for the label. The identity is length-prefixed so
// that distinct (ID, Tag) pairs never map to the same byte string.
func (l Label) Bytes() []byte {
	out := make([]byte, 0, 4+len(l.ID)+len(l.Tag))
	out = binary.BigEndian.AppendUint32(out, uint32(len(l.ID)))
	out = append(out, l.ID...)
	out = append(out, l.Tag...)
	return out
}

// Term is one coefficient of a linear function, keyed by label.
type Term struct {
	Label Label
	Coeff *bls.Scalar
}

// LinearFunction describes the combination sum(c_i * m_i) over labeled data
// items. Terms keep insertion order so that evaluation and verification
// iterate the function consistently; labels are unique within a function.
type LinearFunction struct {
	Terms []Term
}

func NewLinearFunction() *LinearFunction {
	return new(LinearFunction)
}

// AddTerm appends a coefficient for label. A label may appear at most once.
func (f *LinearFunction) AddTerm(label Label, coeff *bls.Scalar) error {
	for _, t := range f.Terms {
		if t.Label == label {
			return ErrDuplicateLabel
		}
	}
	f.Terms = append(f.Terms, Term{Label: label, Coeff: blspairing.CloneScalar(coeff)})
	return nil
}

// SignerIDs returns the distinct signer identities named by the function,
// in first-appearance order.
func (f *LinearFunction) SignerIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, t := range f.Terms {
		if !seen[t.Label.ID] {
			seen[t.Label.ID] = true
			ids = append(ids, t.Label.ID)
		}
	}
	return ids
}

// Compose builds the linear function equivalent to applying coeffs to the
// outputs of fs: term coefficients are scaled by the outer coefficient, and
// a label appearing in several inner functions accumulates additively. Used
// together with Merge for nested evaluation.
func Compose(coeffs []*bls.Scalar, fs []*LinearFunction) (*LinearFunction, error) {
	if len(coeffs) != len(fs) {
		return nil, ErrLengthMismatch
	}

	out := NewLinearFunction()
	idx := make(map[Label]int)
	for k, f := range fs {
		for _, t := range f.Terms {
			c := new(bls.Scalar)
			c.Mul(coeffs[k], t.Coeff)
			if i, ok := idx[t.Label]; ok {
				out.Terms[i].Coeff.Add(out.Terms[i].Coeff, c)
				continue
			}
			idx[t.Label] = len(out.Terms)
			out.Terms = append(out.Terms, Term{Label: t.Label, Coeff: c})
		}
	}
	return out, nil
}
