// Command zkauth-selftest runs one complete Schnorr exchange against a
// configured challenge store and checks that a replayed proof is refused.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/TecharoHQ/zkauth"
	"github.com/TecharoHQ/zkauth/internal"
	libzkauth "github.com/TecharoHQ/zkauth/lib"
	"github.com/TecharoHQ/zkauth/lib/zkp"
	"github.com/facebookgo/flagenv"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
)

var (
	configFname = flag.String("config", "", "full path to a zkauth config file (defaults to a built-in config using the memory store)")
	identity    = flag.String("identity", "", "identity to authenticate as, a random UUID if not set")
	modulus     = flag.String("modulus", "170141183460469231731687303715884105727", "prime modulus p of the group, base 10 (demo default: 2^127-1)")
	generator   = flag.String("generator", "3", "generator g of the group, base 10")
	secret      = flag.String("secret", "", "prover secret x, base 10, a random one is drawn if not set")
	slogLevel   = flag.String("slog-level", "INFO", "logging level (see https://pkg.go.dev/log/slog#hdr-Levels)")
	versionFlag = flag.Bool("version", false, "print zkauth version")
)

var (
	ErrProofRejected = errors.New("selftest: honest proof was rejected")
	ErrReplayAllowed = errors.New("selftest: replayed proof was accepted")
)

type selftest struct {
	identity string
	group    zkp.Group
	secret   *big.Int
}

func main() {
	flagenv.Parse()
	flag.Parse()

	if *versionFlag {
		fmt.Println("zkauth", zkauth.Version)
		return
	}

	internal.InitSlog(*slogLevel)

	st, err := parseFlags()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := libzkauth.LoadConfigOrDefault(*configFname)
	if err != nil {
		log.Fatalf("can't load config: %v", err)
	}

	e, err := libzkauth.New(ctx, c, slog.Default())
	if err != nil {
		log.Fatalf("can't create engine: %v", err)
	}

	if err := st.run(ctx, e); err != nil {
		log.Fatal(err)
	}

	slog.Info("selftest passed", "backend", c.Store.Backend, "version", zkauth.Version)
}

func parseFlags() (*selftest, error) {
	p, err := zkp.ParseInt("modulus", *modulus)
	if err != nil {
		return nil, err
	}

	g, err := zkp.ParseInt("generator", *generator)
	if err != nil {
		return nil, err
	}

	result := &selftest{
		identity: *identity,
		group:    zkp.Group{Modulus: p, Generator: g},
	}

	if result.identity == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("can't generate identity: %w", err)
		}
		result.identity = id.String()
	}

	if *secret != "" {
		result.secret, err = zkp.ParseInt("secret", *secret)
		if err != nil {
			return nil, err
		}
	} else {
		result.secret, err = randomExponent(p)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// randomExponent returns a uniform value in [1, p-1).
func randomExponent(p *big.Int) (*big.Int, error) {
	bound := new(big.Int).Sub(p, big.NewInt(2))
	if bound.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus %s is too small", zkp.ErrInvalidParameters, p)
	}

	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return nil, fmt.Errorf("can't read randomness: %w", err)
	}

	return n.Add(n, big.NewInt(1)), nil
}

func (st *selftest) run(ctx context.Context, e *zkp.Engine) error {
	lg := slog.With(internal.IdentityAttr(st.identity))
	params := st.group.Params(st.group.PublicKey(st.secret))

	r, err := randomExponent(st.group.Modulus)
	if err != nil {
		return err
	}

	cStr, err := e.Issue(ctx, st.identity, st.group.Commit(r).String())
	if err != nil {
		return fmt.Errorf("can't issue challenge: %w", err)
	}
	lg.Debug("got challenge", "challenge", cStr)

	c, err := zkp.ParseInt("challenge", cStr)
	if err != nil {
		return err
	}

	s := st.group.Respond(r, c, st.secret).String()

	ok, err := e.Verify(ctx, st.identity, s, params)
	if err != nil {
		return fmt.Errorf("can't verify proof: %w", err)
	}
	if !ok {
		return ErrProofRejected
	}
	lg.Info("proof accepted")

	ok, err = e.Verify(ctx, st.identity, s, params)
	if err != nil {
		return fmt.Errorf("can't verify replayed proof: %w", err)
	}
	if ok {
		return ErrReplayAllowed
	}
	lg.Info("replayed proof refused")

	return nil
}
