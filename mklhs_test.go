package mklhs

import (
	"testing"

	bls "github.com/cloudflare/circl/ecc/bls12381"
	"github.com/stretchr/testify/require"
)

// newSigners generates n independent key pairs and the pks map the verifier
// would hold.
func newSigners(t *testing.T, pp *PublicParams, n int) ([]*PublicKey, []*PrivateKey, map[string]*PublicKey) {
	t.Helper()

	pks := make([]*PublicKey, n)
	sks := make([]*PrivateKey, n)
	byID := make(map[string]*PublicKey, n)
	for i := 0; i < n; i++ {
		pk, sk, err := KeyGen(pp)
		require.NoError(t, err)
		pks[i] = pk
		sks[i] = sk
		byID[pk.ID] = pk
	}
	return pks, sks, byID
}

func TestKeyGen(t *testing.T) {
	pp := NewPublicParams()

	pk, sk, err := KeyGen(pp)
	require.NoError(t, err)
	require.Len(t, pk.ID, 2*IdSize)
	require.Equal(t, pk.ID, sk.ID)
	require.Equal(t, 0, sk.X.IsZero())

	pk2, _, err := KeyGen(pp)
	require.NoError(t, err)
	require.NotEqual(t, pk.ID, pk2.ID)
	require.False(t, pk.V.IsEqual(pk2.V))
}

func TestSignEvalVerify(t *testing.T) {
	pp := NewPublicParams()
	_, sks, byID := newSigners(t, pp, 1)

	share := Sign(pp, sks[0], "2026-01", NewScalarFromInt64(42))

	f := NewLinearFunction()
	require.NoError(t, f.AddTerm(share.Label, NewScalarFromInt64(1)))

	agg, err := Eval(pp, f, []*SignShare{share})
	require.NoError(t, err)

	y := agg.Result()
	require.Equal(t, 1, y.IsEqual(NewScalarFromInt64(42)))
	require.NoError(t, Verify(pp, f, byID, agg, y))
}

// Two signers A and B sign 7 and 5; the evaluator computes 3*7 + 2*5 = 31.
func TestTwoSignerScenario(t *testing.T) {
	pp := NewPublicParams()
	_, sks, byID := newSigners(t, pp, 2)

	shareA := Sign(pp, sks[0], "jan", NewScalarFromInt64(7))
	shareB := Sign(pp, sks[1], "jan", NewScalarFromInt64(5))

	f := NewLinearFunction()
	require.NoError(t, f.AddTerm(shareA.Label, NewScalarFromInt64(3)))
	require.NoError(t, f.AddTerm(shareB.Label, NewScalarFromInt64(2)))

	agg, err := Eval(pp, f, []*SignShare{shareA, shareB})
	require.NoError(t, err)

	require.Equal(t, 1, agg.Result().IsEqual(NewScalarFromInt64(31)))
	require.NoError(t, Verify(pp, f, byID, agg, NewScalarFromInt64(31)))

	err = Verify(pp, f, byID, agg, NewScalarFromInt64(30))
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestNegativeCoefficients(t *testing.T) {
	pp := NewPublicParams()
	_, sks, byID := newSigners(t, pp, 1)

	share1 := Sign(pp, sks[0], "t1", NewScalarFromInt64(10))
	share2 := Sign(pp, sks[0], "t2", NewScalarFromInt64(4))

	// 2*10 - 3*4 = 8
	f := NewLinearFunction()
	require.NoError(t, f.AddTerm(share1.Label, NewScalarFromInt64(2)))
	require.NoError(t, f.AddTerm(share2.Label, NewScalarFromInt64(-3)))

	agg, err := Eval(pp, f, []*SignShare{share1, share2})
	require.NoError(t, err)
	require.Equal(t, 1, agg.Result().IsEqual(NewScalarFromInt64(8)))
	require.NoError(t, Verify(pp, f, byID, agg, NewScalarFromInt64(8)))
}

func TestNewScalarFromInt64(t *testing.T) {
	sum := new(bls.Scalar)
	sum.Add(NewScalarFromInt64(-5), NewScalarFromInt64(5))
	require.Equal(t, 1, sum.IsZero())

	prod := new(bls.Scalar)
	prod.Mul(NewScalarFromInt64(-3), NewScalarFromInt64(2))
	require.Equal(t, 1, prod.IsEqual(NewScalarFromInt64(-6)))
}

func TestHashLabel(t *testing.T) {
	pp := NewPublicParams()
	label := Label{ID: "aa", Tag: "hello"}

	// deterministic for same inputs
	p1 := pp.HashLabel(label)
	p2 := pp.HashLabel(label)
	require.True(t, p1.IsEqual(p2))
	require.True(t, p1.IsOnG1())
	require.False(t, p1.IsIdentity())

	// distinct labels map to distinct points
	p3 := pp.HashLabel(Label{ID: "aa", Tag: "hellp"})
	require.False(t, p1.IsEqual(p3))

	// the length prefix keeps (ID, Tag) splits apart
	p4 := pp.HashLabel(Label{ID: "aah", Tag: "ello"})
	require.False(t, p1.IsEqual(p4))

	// domain separation changes output
	other := NewPublicParams()
	other.Dst = []byte("MKLHS-TEST:ELL->G1:BLS12-381:V01")
	require.False(t, p1.IsEqual(other.HashLabel(label)))
}

func TestZeroize(t *testing.T) {
	pp := NewPublicParams()
	_, sk, err := KeyGen(pp)
	require.NoError(t, err)

	sk.Zeroize()
	require.Equal(t, 1, sk.X.IsZero())
}

func BenchmarkSign(b *testing.B) {
	pp := NewPublicParams()
	_, sk, err := KeyGen(pp)
	if err != nil {
		b.Fatal(err)
	}
	m := NewScalarFromInt64(42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sign(pp, sk, "bench", m)
	}
}

func BenchmarkEval(b *testing.B) {
	pp := NewPublicParams()
	_, sk, err := KeyGen(pp)
	if err != nil {
		b.Fatal(err)
	}
	share := Sign(pp, sk, "bench", NewScalarFromInt64(42))
	f := NewLinearFunction()
	if err := f.AddTerm(share.Label, NewScalarFromInt64(3)); err != nil {
		b.Fatal(err)
	}
	shares := []*SignShare{share}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Eval(pp, f, shares); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkVerify(b *testing.B) {
	pp := NewPublicParams()
	pk, sk, err := KeyGen(pp)
	if err != nil {
		b.Fatal(err)
	}
	share := Sign(pp, sk, "bench", NewScalarFromInt64(42))
	f := NewLinearFunction()
	if err := f.AddTerm(share.Label, NewScalarFromInt64(3)); err != nil {
		b.Fatal(err)
	}
	agg, err := Eval(pp, f, []*SignShare{share})
	if err != nil {
		b.Fatal(err)
	}
	y := agg.Result()
	pks := map[string]*PublicKey{pk.ID: pk}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Verify(pp, f, pks, agg, y); err != nil {
			b.Fatal(err)
		}
	}
}
