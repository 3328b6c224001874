package mklhs

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	bls "github.com/cloudflare/circl/ecc/bls12381"
	"github.com/etclab/ncircl/util/blspairing"
)

// DstLabel is the hash-to-curve domain separation tag for mapping labels
// into G1.
const DstLabel = "MKLHS-AP-2019-830:ELL->G1:BLS12-381:V01"

// IdSize is the byte length of the random signer identity minted by KeyGen.
const IdSize = 16

type PublicParams struct {
	G1  *bls.G1
	G2  *bls.G2
	Dst []byte
}

func NewPublicParams() *PublicParams {
	pp := new(PublicParams)
	pp.G1 = bls.G1Generator()
	pp.G2 = bls.G2Generator()
	pp.Dst = []byte(DstLabel)
	return pp
}

// HashLabel maps a label into G1 under the parameters' DST.
func (pp *PublicParams) HashLabel(label Label) *bls.G1 {
	return blspairing.HashBytesToG1(label.Bytes(), pp.Dst)
}

type PrivateKey struct {
	ID string
	X  *bls.Scalar
}

// Zeroize overwrites the secret scalar. The key must not be used afterward.
func (sk *PrivateKey) Zeroize() {
	sk.X.SetUint64(0)
}

type PublicKey struct {
	ID string
	V  *bls.G2
}

// KeyGen mints a fresh signer identity and key pair. Signers run KeyGen
// independently; no coordination between signers is required.
func KeyGen(pp *PublicParams) (*PublicKey, *PrivateKey, error) {
	idBytes := make([]byte, IdSize)
	if _, err := rand.Read(idBytes); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	id := hex.EncodeToString(idBytes)

	x := new(bls.Scalar)
	for {
		if err := x.Random(rand.Reader); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrRandomness, err)
		}
		if x.IsZero() == 0 {
			break
		}
	}

	sk := &PrivateKey{ID: id, X: x}

	pk := &PublicKey{ID: id}
	pk.V = new(bls.G2)
	pk.V.ScalarMult(sk.X, pp.G2)

	return pk, sk, nil
}

type Signature struct {
	Gamma *bls.G1
}

func (sig *Signature) Clone() *Signature {
	newSig := new(Signature)
	newSig.Gamma = blspairing.CloneG1(sig.Gamma)
	return newSig
}

func (sig *Signature) Equal(other *Signature) bool {
	return sig.Gamma.IsEqual(other.Gamma)
}

// SignShare is one signer's authenticated data item: the label, the signed
// value, and the signature the evaluator combines.
type SignShare struct {
	Label Label
	Mu    *bls.Scalar
	Sig   *Signature
}

// Sign authenticates msg under the label (sk.ID, tag):
//
//	gamma = x * (H(label) + msg*g1)
//
// Labels are formed from the signer's own identity, so a signer can only
// ever sign under labels it owns. Reusing a tag for two different values
// under the same key breaks unforgeability; tracking issued tags is the
// caller's responsibility.
func Sign(pp *PublicParams, sk *PrivateKey, tag string, msg *bls.Scalar) *SignShare {
	label := Label{ID: sk.ID, Tag: tag}

	p := pp.HashLabel(label)
	gm := new(bls.G1)
	gm.ScalarMult(msg, pp.G1)
	p.Add(p, gm)

	sig := new(Signature)
	sig.Gamma = new(bls.G1)
	sig.Gamma.ScalarMult(sk.X, p)

	return &SignShare{
		Label: label,
		Mu:    blspairing.CloneScalar(msg),
		Sig:   sig,
	}
}

// NewScalarFromInt64 embeds a signed integer into the scalar field.
func NewScalarFromInt64(v int64) *bls.Scalar {
	z := new(bls.Scalar)
	if v >= 0 {
		z.SetUint64(uint64(v))
		return z
	}
	mag := new(bls.Scalar)
	mag.SetUint64(uint64(-(v + 1)) + 1)
	z.SetUint64(0)
	z.Sub(z, mag)
	return z
}
