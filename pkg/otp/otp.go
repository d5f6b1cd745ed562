package otp

import (
	"crypto/hmac"
	"encoding/binary"
	"fmt"
	"hash"
	"math"
	"time"
)

// window is how long one code slot stays current, lookback how many
// past slots validation still accepts.
const (
	window   = 60
	lookback = 3
)

// TOTP issues paired login codes: a long proof the client holds on to
// and a short code delivered out of band. Validation requires both.
type TOTP struct {
	hasher func() hash.Hash
	master []byte
}

func NewTOTP(hasher func() hash.Hash, master []byte) *TOTP {
	return &TOTP{hasher: hasher, master: master}
}

func (t *TOTP) proof(base string, slot int64) []byte {
	mac := hmac.New(t.hasher, t.master)
	fmt.Fprintf(mac, "%s|%d", base, slot)

	return mac.Sum(nil)
}

func shortCode(proof []byte, digs int) string {
	n := binary.BigEndian.Uint64(proof) % uint64(math.Pow10(digs))

	return fmt.Sprintf("%0*d", digs, n)
}

func currentSlot() int64 {
	return time.Now().Unix() / window
}

func (t *TOTP) Generate(base string, digs int) (long []byte, short string) {
	long = t.proof(base, currentSlot())

	return long, shortCode(long, digs)
}

func (t *TOTP) Validate(base string, digs int, long []byte, short string) bool {
	slot := currentSlot()

	for i := int64(0); i < lookback; i++ {
		p := t.proof(base, slot-i)
		if hmac.Equal(p, long) {
			return shortCode(p, digs) == short
		}
	}

	return false
}
