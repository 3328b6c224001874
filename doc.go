// Package mklhs implements the multi-key linearly homomorphic signature
// scheme from the [paper]:
//
//	@misc{19-eprint-mklhs,
//	    title = {The Simplest Multi-key Linearly Homomorphic Signature Scheme},
//	    author = {Aranha, Diego F. and Pagnin, Elena},
//	    howpublished = {Cryptology ePrint Archive, Paper 2019/830},
//	    year = {2019},
//	}
//
// Each signer authenticates scalar values under its own key pair and
// per-value labels. An evaluator, holding only signatures, derives one
// aggregate authenticating any linear combination of the signed values.
// A verifier checks the aggregate against the signers' public keys, the
// linear function, and the claimed result with a single pairing-product
// equation.
//
// The scheme is instantiated over BLS12-381 with labels hashed into G1.
//
// [paper]: https://eprint.iacr.org/2019/830
package mklhs
