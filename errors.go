package mklhs

import "errors"

var (
	// ErrVerificationFailed is the single rejection value for Verify; no
	// reason is distinguished.
	ErrVerificationFailed = errors.New("mklhs: verification failed")

	// ErrMissingSignature reports a linear-function term with no matching
	// sign share. This is a contract violation by the evaluator's caller,
	// not a cryptographic rejection.
	ErrMissingSignature = errors.New("mklhs: no sign share for label")

	// ErrMissingPublicKey reports a signer named by the linear function for
	// which the verifier holds no public key.
	ErrMissingPublicKey = errors.New("mklhs: no public key for signer")

	ErrDuplicateLabel = errors.New("mklhs: duplicate label")
	ErrRandomness     = errors.New("mklhs: randomness source failed")
	ErrLengthMismatch = errors.New("mklhs: coefficient and operand counts differ")
	ErrEmptyInput     = errors.New("mklhs: empty input")
)
