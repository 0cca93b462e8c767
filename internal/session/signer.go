package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

const tokenVersion = "v1"

// Signer 负责签发和校验自包含的会话令牌，服务端不保存任何会话状态。
// 令牌格式: v1.<base64url(payload_json)>.<base64url(hmac_sha256)>，无填充。
type Signer struct {
	key []byte
	ttl time.Duration
}

type Payload struct {
	Username string `json:"u"`
	ExpUnix  int64  `json:"exp_unix"`
}

func NewSigner(key []byte, ttl time.Duration) *Signer {
	return &Signer{key: key, ttl: ttl}
}

func (s *Signer) Issue(username string, now time.Time) string {
	payload := Payload{
		Username: username,
		ExpUnix:  now.Add(s.ttl).Unix(),
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		// Payload 只含 string 和 int64，序列化不可能失败
		panic("session: marshal payload: " + err.Error())
	}
	payloadB64 := base64.RawURLEncoding.EncodeToString(payloadJSON)
	sigB64 := base64.RawURLEncoding.EncodeToString(s.sign(payloadB64))

	return tokenVersion + "." + payloadB64 + "." + sigB64
}

// Verify 返回令牌中的用户名。签名不符、版本不符、格式损坏、已过期都视为无效，
// 签名比较是常数时间的。
func (s *Signer) Verify(token string, now time.Time) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] != tokenVersion {
		return "", false
	}
	payloadB64, sigB64 := parts[1], parts[2]

	sig, err := base64.RawURLEncoding.DecodeString(sigB64)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(sig, s.sign(payloadB64)) {
		return "", false
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(payloadB64)
	if err != nil {
		return "", false
	}
	var payload Payload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return "", false
	}
	if payload.ExpUnix <= now.Unix() {
		return "", false
	}
	return payload.Username, true
}

func (s *Signer) sign(payloadB64 string) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(payloadB64))
	return mac.Sum(nil)
}
