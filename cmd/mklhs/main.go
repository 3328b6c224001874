// Command mklhs exercises the full signer/evaluator/verifier flow over JSON
// artifact files:
//
//	mklhs keygen -key alice.key -pub alice.pub
//	mklhs sign   -key alice.key -tag jan -value 7 -out alice-jan.json
//	mklhs eval   -shares alice-jan.json,bob-jan.json -coeffs 3,2 -fn fn.json -out agg.json
//	mklhs verify -fn fn.json -pubs alice.pub,bob.pub -agg agg.json -result 31
//
// The passphrase protecting key files comes from MKLHS_PASSPHRASE.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	bls "github.com/cloudflare/circl/ecc/bls12381"
	"github.com/etclab/mu"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/etclab/mklhs"
	"github.com/etclab/mklhs/keystore"
)

type config struct {
	Passphrase string `envconfig:"MKLHS_PASSPHRASE" default:"mklhs-dev"`
	Debug      bool   `envconfig:"MKLHS_DEBUG"`
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mklhs <keygen|sign|eval|verify> [flags]")
	os.Exit(2)
}

func main() {
	var cfg config
	if err := envconfig.Process("mklhs", &cfg); err != nil {
		mu.Fatalf("envconfig.Process failed: %v", err)
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	if len(os.Args) < 2 {
		usage()
	}

	pp := mklhs.NewPublicParams()

	switch os.Args[1] {
	case "keygen":
		doKeygen(pp, cfg, logger, os.Args[2:])
	case "sign":
		doSign(pp, cfg, logger, os.Args[2:])
	case "eval":
		doEval(pp, logger, os.Args[2:])
	case "verify":
		doVerify(pp, logger, os.Args[2:])
	default:
		usage()
	}
}

func newLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		mu.Fatalf("zap logger init failed: %v", err)
	}
	return logger
}

func doKeygen(pp *mklhs.PublicParams, cfg config, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	keyPath := fs.String("key", "mklhs.key", "output path for the sealed key pair")
	pubPath := fs.String("pub", "mklhs.pub", "output path for the public key")
	fs.Parse(args)

	pk, sk, err := mklhs.KeyGen(pp)
	if err != nil {
		mu.Fatalf("KeyGen failed: %v", err)
	}
	defer sk.Zeroize()

	if err := keystore.SaveKeyPair(*keyPath, pk, sk, []byte(cfg.Passphrase)); err != nil {
		mu.Fatalf("failed to write key pair: %v", err)
	}
	if err := keystore.SavePublicKey(*pubPath, pk); err != nil {
		mu.Fatalf("failed to write public key: %v", err)
	}

	logger.Info("generated key pair",
		zap.String("signer", pk.ID),
		zap.String("key", *keyPath),
		zap.String("pub", *pubPath))
}

func doSign(pp *mklhs.PublicParams, cfg config, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	keyPath := fs.String("key", "mklhs.key", "path to the sealed key pair")
	tag := fs.String("tag", "", "label tag for this data item")
	value := fs.Int64("value", 0, "scalar value to sign")
	outPath := fs.String("out", "share.json", "output path for the sign share")
	fs.Parse(args)

	if *tag == "" {
		mu.Fatalf("sign: -tag is required")
	}

	_, sk, err := keystore.LoadKeyPair(*keyPath, []byte(cfg.Passphrase))
	if err != nil {
		mu.Fatalf("failed to load key pair: %v", err)
	}
	defer sk.Zeroize()

	share := mklhs.Sign(pp, sk, *tag, mklhs.NewScalarFromInt64(*value))

	if err := writeJSON(*outPath, share, 0o644); err != nil {
		mu.Fatalf("failed to write sign share: %v", err)
	}

	logger.Info("signed value",
		zap.String("signer", sk.ID),
		zap.String("tag", *tag),
		zap.Int64("value", *value),
		zap.String("out", *outPath))
}

func doEval(pp *mklhs.PublicParams, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	sharePaths := fs.String("shares", "", "comma-separated sign share files, term order")
	coeffList := fs.String("coeffs", "", "comma-separated integer coefficients, one per share")
	fnPath := fs.String("fn", "fn.json", "output path for the linear function")
	outPath := fs.String("out", "agg.json", "output path for the aggregate")
	fs.Parse(args)

	shares := loadShares(*sharePaths)
	coeffs := parseCoeffs(*coeffList)
	if len(shares) != len(coeffs) {
		mu.Fatalf("eval: %d shares but %d coefficients", len(shares), len(coeffs))
	}

	f := mklhs.NewLinearFunction()
	for i, s := range shares {
		if err := f.AddTerm(s.Label, coeffs[i]); err != nil {
			mu.Fatalf("bad linear function: %v", err)
		}
	}

	agg, err := mklhs.Eval(pp, f, shares)
	if err != nil {
		mu.Fatalf("Eval failed: %v", err)
	}

	if err := writeJSON(*fnPath, f, 0o644); err != nil {
		mu.Fatalf("failed to write linear function: %v", err)
	}
	if err := writeJSON(*outPath, agg, 0o644); err != nil {
		mu.Fatalf("failed to write aggregate: %v", err)
	}

	logger.Info("combined shares",
		zap.Int("terms", len(f.Terms)),
		zap.String("result", agg.Result().String()),
		zap.String("fn", *fnPath),
		zap.String("out", *outPath))
}

func doVerify(pp *mklhs.PublicParams, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fnPath := fs.String("fn", "fn.json", "path to the linear function")
	pubPaths := fs.String("pubs", "", "comma-separated public key files")
	aggPath := fs.String("agg", "agg.json", "path to the aggregate")
	result := fs.Int64("result", 0, "claimed result of the linear function")
	fs.Parse(args)

	fBytes, err := os.ReadFile(*fnPath)
	if err != nil {
		mu.Fatalf("failed to read linear function: %v", err)
	}
	f, err := mklhs.ParseLinearFunction(fBytes)
	if err != nil {
		mu.Fatalf("%v", err)
	}

	aggBytes, err := os.ReadFile(*aggPath)
	if err != nil {
		mu.Fatalf("failed to read aggregate: %v", err)
	}
	agg, err := mklhs.ParseAggregate(aggBytes)
	if err != nil {
		mu.Fatalf("%v", err)
	}

	pks := make(map[string]*mklhs.PublicKey)
	for _, path := range splitList(*pubPaths) {
		pk, err := keystore.LoadPublicKey(path)
		if err != nil {
			mu.Fatalf("failed to load public key %s: %v", path, err)
		}
		pks[pk.ID] = pk
	}

	err = mklhs.Verify(pp, f, pks, agg, mklhs.NewScalarFromInt64(*result))
	if err != nil {
		logger.Warn("verification rejected",
			zap.Int64("result", *result),
			zap.Error(err))
		os.Exit(1)
	}

	logger.Info("verification accepted", zap.Int64("result", *result))
}

func loadShares(list string) []*mklhs.SignShare {
	var shares []*mklhs.SignShare
	for _, path := range splitList(list) {
		data, err := os.ReadFile(path)
		if err != nil {
			mu.Fatalf("failed to read sign share %s: %v", path, err)
		}
		share, err := mklhs.ParseSignShare(data)
		if err != nil {
			mu.Fatalf("%v", err)
		}
		shares = append(shares, share)
	}
	return shares
}

func parseCoeffs(list string) []*bls.Scalar {
	var coeffs []*bls.Scalar
	for _, s := range splitList(list) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			mu.Fatalf("bad coefficient %q: %v", s, err)
		}
		coeffs = append(coeffs, mklhs.NewScalarFromInt64(v))
	}
	return coeffs
}

func splitList(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func writeJSON(path string, v any, mode os.FileMode) error {
	var data []byte
	var err error

	switch x := v.(type) {
	case *mklhs.SignShare:
		sss := new(mklhs.SignShareSerialized)
		if err = sss.Serialize(x); err != nil {
			return err
		}
		data, err = json.Marshal(sss)
	case *mklhs.LinearFunction:
		lfs := new(mklhs.LinearFunctionSerialized)
		if err = lfs.Serialize(x); err != nil {
			return err
		}
		data, err = json.Marshal(lfs)
	case *mklhs.Aggregate:
		as := new(mklhs.AggregateSerialized)
		if err = as.Serialize(x); err != nil {
			return err
		}
		data, err = json.Marshal(as)
	default:
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("json.Marshal failed: %v", err)
	}

	return os.WriteFile(path, data, mode)
}
