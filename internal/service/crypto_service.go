package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/F-AI-SAL/exbuy/config"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"
	"github.com/F-AI-SAL/exbuy/pkg/apperror"
)

// RSAPayloadDecryptor implements ports.PayloadDecryptor using RSA-OAEP with
// SHA-256, matching the ciphertext produced by clients via publicEncrypt.
//
// All client-side failure modes (bad base64, wrong key, corrupted padding,
// unparsable plaintext) collapse into one error so responses cannot be used
// as a padding oracle.
type RSAPayloadDecryptor struct {
	key *rsa.PrivateKey // nil when no key material is configured
}

// NewRSAPayloadDecryptor loads the private key from config: inline PEM takes
// precedence over a key file. With neither configured the decryptor is built
// keyless and fails closed on use with a server configuration error.
func NewRSAPayloadDecryptor(cfg config.CryptoConfig) (*RSAPayloadDecryptor, error) {
	pemData := []byte(cfg.PrivateKey)
	if len(pemData) == 0 && cfg.PrivateKeyFile != "" {
		data, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading private key file: %w", err)
		}
		pemData = data
	}
	if len(pemData) == 0 {
		return &RSAPayloadDecryptor{}, nil
	}

	key, err := parsePrivateKey(pemData)
	if err != nil {
		return nil, err
	}
	return &RSAPayloadDecryptor{key: key}, nil
}

func parsePrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("decoding private key PEM: no PEM block found")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is not RSA")
		}
		return rsaKey, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return key, nil
}

// HasKey reports whether key material is configured.
func (d *RSAPayloadDecryptor) HasKey() bool {
	return d.key != nil
}

// Decrypt verifies and decrypts a base64 RSA-OAEP ciphertext into an order
// submission. Pure function: no side effects.
func (d *RSAPayloadDecryptor) Decrypt(ciphertext string) (*ports.OrderSubmission, error) {
	if d.key == nil {
		return nil, apperror.ErrMissingDecryptionKey()
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, apperror.ErrInvalidEncryptedPayload()
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, d.key, raw, nil)
	if err != nil {
		return nil, apperror.ErrInvalidEncryptedPayload()
	}

	var sub ports.OrderSubmission
	if err := json.Unmarshal(plaintext, &sub); err != nil {
		return nil, apperror.ErrInvalidEncryptedPayload()
	}
	return &sub, nil
}

// EncryptOrderPayload is the client side of the scheme: JSON-encode the
// submission and encrypt it with the server's public key. Used by tests and
// by the order-automation tooling.
func EncryptOrderPayload(sub *ports.OrderSubmission, pub *rsa.PublicKey) (string, error) {
	plaintext, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("encoding submission: %w", err)
	}
	encrypted, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return "", fmt.Errorf("encrypting submission: %w", err)
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}
