package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"
	mrand "math/rand"
)

// Minter issues and verifies opaque user tokens: the user id plus a
// random salt sealed with AES-GCM. Also used for the short owner refs
// embedded in media urls.
type Minter struct {
	gcm cipher.AEAD
}

func NewMinter(key []byte) (*Minter, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &Minter{gcm: gcm}, nil
}

func (m *Minter) seal(data []byte) ([]byte, error) {
	nonce := make([]byte, m.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return m.gcm.Seal(nonce, nonce, data, nil), nil
}

func (m *Minter) open(data []byte) ([]byte, error) {
	ns := m.gcm.NonceSize()
	if len(data) <= ns {
		return nil, errors.New("data is shorter than nonce")
	}

	return m.gcm.Open(nil, data[:ns], data[ns:], nil)
}

// Mint builds an auth token for the user.
func (m *Minter) Mint(uid uint64) ([]byte, error) {
	raw := make([]byte, 16)
	binary.LittleEndian.PutUint64(raw, uid)
	binary.LittleEndian.PutUint64(raw[8:], mrand.Uint64())

	return m.seal(raw)
}

// Parse recovers the user id from an auth token.
func (m *Minter) Parse(token []byte) (uint64, error) {
	raw, err := m.open(token)
	if err != nil || len(raw) != 16 {
		return 0, errors.New("bad token")
	}

	return binary.LittleEndian.Uint64(raw), nil
}

// MintOwner builds the hex owner ref used in media urls, hiding the
// real user id from the peer.
func (m *Minter) MintOwner(uid uint64) (string, error) {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, uid)

	enc, err := m.seal(raw)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(enc), nil
}

func (m *Minter) ParseOwner(ref string) (uint64, error) {
	enc, err := hex.DecodeString(ref)
	if err != nil {
		return 0, errors.New("bad owner ref")
	}

	raw, err := m.open(enc)
	if err != nil || len(raw) != 8 {
		return 0, errors.New("bad owner ref")
	}

	return binary.LittleEndian.Uint64(raw), nil
}
