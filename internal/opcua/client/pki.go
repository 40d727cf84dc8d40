package client

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// PKIHandle resolves the certificate and private key a SecureChannelConfig
// needs once SecurityMode leaves None, and derives the symmetric keys the
// secure channel uses once a shared secret is established. The cert/key
// pair is read either from a filesystem path or, for an "s3://bucket/key"
// PKIPath, from an S3 object.
type PKIHandle struct {
	CertPath string
	KeyPath  string
}

// LoadCertificate returns the raw certificate bytes named by CertPath,
// fetching from S3 when CertPath has an "s3://" scheme.
func (h PKIHandle) LoadCertificate(ctx context.Context) ([]byte, error) {
	return readPKIBlob(ctx, h.CertPath)
}

// LoadPrivateKey returns the raw private key bytes named by KeyPath.
func (h PKIHandle) LoadPrivateKey(ctx context.Context) ([]byte, error) {
	return readPKIBlob(ctx, h.KeyPath)
}

func readPKIBlob(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "s3://") {
		return fetchS3Object(ctx, path)
	}
	return os.ReadFile(path)
}

func fetchS3Object(ctx context.Context, uri string) ([]byte, error) {
	rest := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("pki: malformed s3 path %q, want s3://bucket/key", uri)
	}
	bucket, key := parts[0], parts[1]

	sess, err := session.NewSession(aws.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("pki: opening S3 session: %w", err)
	}
	out, err := s3.New(sess).GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("pki: fetching s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// ChannelKeys is the symmetric material a secure channel derives from its
// negotiated secret, mirroring the SigningKey/EncryptingKey/InitVector
// triple the UA security policies define, one per direction.
type ChannelKeys struct {
	SigningKey    []byte
	EncryptingKey []byte
	InitVector    []byte
}

// DeriveChannelKeys derives ChannelKeys from a shared secret and nonces the
// way a PSHA256-based security policy does: PBKDF2 stretches the secret
// into key-derivation-function input keying material, then HKDF expands it
// into the signing/encrypting/IV segments, labelled by direction so client
// and server derive distinct (but matching) key sets from the same secret.
func DeriveChannelKeys(secret, clientNonce, serverNonce []byte, direction string, signingKeyLen, encryptingKeyLen, ivLen int) (ChannelKeys, error) {
	salt := append(append([]byte{}, clientNonce...), serverNonce...)
	stretched := pbkdf2.Key(secret, salt, 1, signingKeyLen+encryptingKeyLen+ivLen, sha256.New)

	r := hkdf.New(sha256.New, stretched, salt, []byte("opcuacore-channel-keys:"+direction))
	keys := ChannelKeys{
		SigningKey:    make([]byte, signingKeyLen),
		EncryptingKey: make([]byte, encryptingKeyLen),
		InitVector:    make([]byte, ivLen),
	}
	for _, buf := range []([]byte){keys.SigningKey, keys.EncryptingKey, keys.InitVector} {
		if _, err := io.ReadFull(r, buf); err != nil {
			return ChannelKeys{}, fmt.Errorf("client: deriving channel keys: %w", err)
		}
	}
	return keys, nil
}

// DefaultPKIPath returns the conventional PKI directory relative to a
// config root, used when a ChannelConfig doesn't set one explicitly.
func DefaultPKIPath(root string) string {
	return filepath.Join(root, "pki")
}
