package mklhs

import (
	"bytes"
	"encoding/json"
	"fmt"

	bls "github.com/cloudflare/circl/ecc/bls12381"
)

type PublicParamsSerialized struct {
	G1  []byte `json:"g1"`
	G2  []byte `json:"g2"`
	Dst []byte `json:"dst"`
}

func (pps *PublicParamsSerialized) Serialize(pp *PublicParams) {
	pps.G1 = pp.G1.BytesCompressed()
	pps.G2 = pp.G2.BytesCompressed()
	pps.Dst = pp.Dst
}

func (pps PublicParamsSerialized) DeSerialize() (*PublicParams, error) {
	g1 := &bls.G1{}
	g2 := &bls.G2{}

	err := g1.SetBytes(pps.G1)
	if err != nil {
		return nil, err
	}

	err = g2.SetBytes(pps.G2)
	if err != nil {
		return nil, err
	}

	return &PublicParams{
		G1:  g1,
		G2:  g2,
		Dst: pps.Dst,
	}, nil
}

type PublicKeySerialized struct {
	ID string `json:"id"`
	V  []byte `json:"v"`
}

func (pks *PublicKeySerialized) Serialize(pk *PublicKey) {
	pks.ID = pk.ID
	pks.V = pk.V.BytesCompressed()
}

func (pks PublicKeySerialized) DeSerialize() (*PublicKey, error) {
	v := &bls.G2{}

	err := v.SetBytes(pks.V)
	if err != nil {
		return nil, err
	}

	return &PublicKey{
		ID: pks.ID,
		V:  v,
	}, nil
}

type KeyPairSerialized struct {
	PK PublicKeySerialized `json:"pk"`
	SK []byte              `json:"sk"`
}

func (kps *KeyPairSerialized) Serialize(pk *PublicKey, sk *PrivateKey) error {
	kps.PK.Serialize(pk)
	skBytes, err := sk.X.MarshalBinary()
	if err != nil {
		return err
	}
	kps.SK = skBytes

	return nil
}

func (kps KeyPairSerialized) DeSerialize() (*PublicKey, *PrivateKey, error) {
	publicKey, err := kps.PK.DeSerialize()
	if err != nil {
		return nil, nil, err
	}

	x := new(bls.Scalar)
	err = x.UnmarshalBinary(kps.SK)
	if err != nil {
		return nil, nil, err
	}

	return publicKey, &PrivateKey{ID: publicKey.ID, X: x}, nil
}

type SignShareSerialized struct {
	ID    string `json:"id"`
	Tag   string `json:"tag"`
	Mu    []byte `json:"mu"`
	Gamma []byte `json:"gamma"`
}

func (sss *SignShareSerialized) Serialize(s *SignShare) error {
	mu, err := s.Mu.MarshalBinary()
	if err != nil {
		return err
	}

	sss.ID = s.Label.ID
	sss.Tag = s.Label.Tag
	sss.Mu = mu
	sss.Gamma = s.Sig.Gamma.BytesCompressed()
	return nil
}

func (sss SignShareSerialized) DeSerialize() (*SignShare, error) {
	mu := new(bls.Scalar)
	err := mu.UnmarshalBinary(sss.Mu)
	if err != nil {
		return nil, err
	}

	gamma := &bls.G1{}
	err = gamma.SetBytes(sss.Gamma)
	if err != nil {
		return nil, err
	}

	return &SignShare{
		Label: Label{ID: sss.ID, Tag: sss.Tag},
		Mu:    mu,
		Sig:   &Signature{Gamma: gamma},
	}, nil
}

type TermSerialized struct {
	ID    string `json:"id"`
	Tag   string `json:"tag"`
	Coeff []byte `json:"coeff"`
}

type LinearFunctionSerialized struct {
	Terms []TermSerialized `json:"terms"`
}

func (lfs *LinearFunctionSerialized) Serialize(f *LinearFunction) error {
	lfs.Terms = make([]TermSerialized, 0, len(f.Terms))
	for _, t := range f.Terms {
		coeff, err := t.Coeff.MarshalBinary()
		if err != nil {
			return err
		}
		lfs.Terms = append(lfs.Terms, TermSerialized{
			ID:    t.Label.ID,
			Tag:   t.Label.Tag,
			Coeff: coeff,
		})
	}
	return nil
}

func (lfs LinearFunctionSerialized) DeSerialize() (*LinearFunction, error) {
	f := NewLinearFunction()
	for _, ts := range lfs.Terms {
		coeff := new(bls.Scalar)
		err := coeff.UnmarshalBinary(ts.Coeff)
		if err != nil {
			return nil, err
		}
		err = f.AddTerm(Label{ID: ts.ID, Tag: ts.Tag}, coeff)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

type AggregateSerialized struct {
	Gamma []byte            `json:"gamma"`
	Mus   map[string][]byte `json:"mus"`
}

func (as *AggregateSerialized) Serialize(agg *Aggregate) error {
	as.Gamma = agg.Gamma.BytesCompressed()
	as.Mus = make(map[string][]byte, len(agg.Mus))
	for id, mu := range agg.Mus {
		muBytes, err := mu.MarshalBinary()
		if err != nil {
			return err
		}
		as.Mus[id] = muBytes
	}
	return nil
}

func (as AggregateSerialized) DeSerialize() (*Aggregate, error) {
	gamma := &bls.G1{}
	err := gamma.SetBytes(as.Gamma)
	if err != nil {
		return nil, err
	}

	mus := make(map[string]*bls.Scalar, len(as.Mus))
	for id, muBytes := range as.Mus {
		mu := new(bls.Scalar)
		err = mu.UnmarshalBinary(muBytes)
		if err != nil {
			return nil, err
		}
		mus[id] = mu
	}

	return &Aggregate{
		Gamma: gamma,
		Mus:   mus,
	}, nil
}

func ParsePublicParams(ppBytes []byte) (*PublicParams, error) {
	pps := new(PublicParamsSerialized)
	err := json.NewDecoder(bytes.NewReader(ppBytes)).Decode(pps)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public params: %v", err)
	}

	publicParams, err := pps.DeSerialize()
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize public params: %v", err)
	}

	return publicParams, nil
}

func ParsePublicKey(pkBytes []byte) (*PublicKey, error) {
	pks := new(PublicKeySerialized)
	err := json.NewDecoder(bytes.NewReader(pkBytes)).Decode(pks)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %v", err)
	}

	publicKey, err := pks.DeSerialize()
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize public key: %v", err)
	}

	return publicKey, nil
}

func ParseKeyPair(kpBytes []byte) (*PublicKey, *PrivateKey, error) {
	kps := new(KeyPairSerialized)
	err := json.NewDecoder(bytes.NewReader(kpBytes)).Decode(kps)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode key pair: %v", err)
	}

	publicKey, privateKey, err := kps.DeSerialize()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to deserialize key pair: %v", err)
	}

	return publicKey, privateKey, nil
}

func ParseSignShare(sBytes []byte) (*SignShare, error) {
	sss := new(SignShareSerialized)
	err := json.NewDecoder(bytes.NewReader(sBytes)).Decode(sss)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sign share: %v", err)
	}

	share, err := sss.DeSerialize()
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize sign share: %v", err)
	}

	return share, nil
}

func ParseLinearFunction(fBytes []byte) (*LinearFunction, error) {
	lfs := new(LinearFunctionSerialized)
	err := json.NewDecoder(bytes.NewReader(fBytes)).Decode(lfs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode linear function: %v", err)
	}

	f, err := lfs.DeSerialize()
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize linear function: %v", err)
	}

	return f, nil
}

func ParseAggregate(aggBytes []byte) (*Aggregate, error) {
	as := new(AggregateSerialized)
	err := json.NewDecoder(bytes.NewReader(aggBytes)).Decode(as)
	if err != nil {
		return nil, fmt.Errorf("failed to decode aggregate: %v", err)
	}

	agg, err := as.DeSerialize()
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize aggregate: %v", err)
	}

	return agg, nil
}
