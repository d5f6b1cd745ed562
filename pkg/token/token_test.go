package token

import (
	"bytes"
	"testing"
)

func TestMintParse(t *testing.T) {
	m, err := NewMinter(make([]byte, 32))
	if err != nil {
		t.Fatal(err)
	}

	for _, uid := range []uint64{0, 1, 777, 1<<64 - 1} {
		tok, err := m.Mint(uid)
		if err != nil {
			t.Fatal(err)
		}

		got, err := m.Parse(tok)
		if err != nil {
			t.Fatalf("uid %d: %v", uid, err)
		}
		if got != uid {
			t.Errorf("got %d, want %d", got, uid)
		}
	}
}

func TestTokensAreUnique(t *testing.T) {
	m, _ := NewMinter(make([]byte, 32))

	a, _ := m.Mint(7)
	b, _ := m.Mint(7)

	if bytes.Equal(a, b) {
		t.Error("two tokens for the same user must differ")
	}
}

func TestParseRejectsTampered(t *testing.T) {
	m, _ := NewMinter(make([]byte, 32))

	tok, _ := m.Mint(7)
	tok[len(tok)-1] ^= 1

	if _, err := m.Parse(tok); err == nil {
		t.Error("tampered token accepted")
	}

	if _, err := m.Parse([]byte{1, 2, 3}); err == nil {
		t.Error("short token accepted")
	}
	if _, err := m.Parse(nil); err == nil {
		t.Error("empty token accepted")
	}
}

func TestParseRejectsForeignKey(t *testing.T) {
	m1, _ := NewMinter(make([]byte, 32))

	other := make([]byte, 32)
	other[0] = 1
	m2, _ := NewMinter(other)

	tok, _ := m1.Mint(7)
	if _, err := m2.Parse(tok); err == nil {
		t.Error("token minted with another key accepted")
	}
}

func TestOwnerRef(t *testing.T) {
	m, _ := NewMinter(make([]byte, 32))

	ref, err := m.MintOwner(42)
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.ParseOwner(ref)
	if err != nil || got != 42 {
		t.Fatalf("got %d %v", got, err)
	}

	if _, err = m.ParseOwner("zz-not-hex"); err == nil {
		t.Error("non-hex ref accepted")
	}
	if _, err = m.ParseOwner("abcdef"); err == nil {
		t.Error("truncated ref accepted")
	}
}

func TestNewMinterBadKey(t *testing.T) {
	if _, err := NewMinter(make([]byte, 5)); err == nil {
		t.Error("invalid key size accepted")
	}
}
