package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const codeHashLen = 20

// CodeGenerator produces confirmation codes that need no storage: a code is a
// timestamp plus a MAC over the caller supplied account state and that
// timestamp. Changing the state invalidates every code issued before.
type CodeGenerator struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewCodeGenerator(key []byte, ttl time.Duration) *CodeGenerator {
	return &CodeGenerator{key: key, ttl: ttl, now: time.Now}
}

func (g *CodeGenerator) Make(state string) string {
	ts := g.now().Unix()
	return g.makeAt(state, ts)
}

func (g *CodeGenerator) Check(state, code string) bool {
	tsPart, hashPart, ok := strings.Cut(code, "-")
	if !ok || tsPart == "" || len(hashPart) != codeHashLen {
		return false
	}
	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}

	expected := g.makeAt(state, ts)
	if !hmac.Equal([]byte(expected), []byte(code)) {
		return false
	}

	age := g.now().Unix() - ts
	return age >= 0 && time.Duration(age)*time.Second <= g.ttl
}

func (g *CodeGenerator) makeAt(state string, ts int64) string {
	tsPart := strconv.FormatInt(ts, 36)

	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(state))
	mac.Write([]byte{0})
	mac.Write([]byte(tsPart))
	sum := hex.EncodeToString(mac.Sum(nil))

	return tsPart + "-" + sum[:codeHashLen]
}
