package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/opsboard/pkg/cryptox"
	"github.com/aussiebroadwan/opsboard/pkg/jwtx"
)

// signingKeys holds the session signer and the key set its tokens verify
// against.
type signingKeys struct {
	signer   jwtx.Signer
	keys     *jwtx.KeySet
	verifier jwtx.Verifier
}

// initSigningKeys loads the Ed25519 session key from cfg.SigningKeyFile,
// creating it on first start. Sessions survive restarts as long as the file
// does.
func initSigningKeys(cfg Config, logger *slog.Logger) (signingKeys, error) {
	priv, err := cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return signingKeys{}, fmt.Errorf("failed to load signing key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(cfg.KeyID, priv)
	if err != nil {
		return signingKeys{}, fmt.Errorf("failed to create signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return signingKeys{}, fmt.Errorf("failed to register signing key: %w", err)
	}

	logger.Info("session signing key loaded", "kid", cfg.KeyID, "path", cfg.SigningKeyFile)

	return signingKeys{
		signer:   signer,
		keys:     keys,
		verifier: jwtx.NewVerifierEdDSA(keys, cfg.Issuer, cfg.Audience),
	}, nil
}
