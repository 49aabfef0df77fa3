package flowtts

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	signAlgorithm   = "TC3-HMAC-SHA256"
)

// tc3Signer signs requests with Tencent Cloud API 3.0 signatures.
type tc3Signer struct {
	secretID  string
	secretKey string
	service   string
}

// sign sets X-TC-Timestamp and Authorization on req.
func (s tc3Signer) sign(req *http.Request, action string, body []byte, now time.Time) {
	now = now.UTC()
	timestamp := strconv.FormatInt(now.Unix(), 10)
	date := now.Format("2006-01-02")
	host := req.URL.Host

	req.Header.Set("X-TC-Timestamp", timestamp)
	req.Host = host

	signedHeaders := "content-type;host;x-tc-action"
	canonicalHeaders := fmt.Sprintf("content-type:%s\nhost:%s\nx-tc-action:%s\n",
		contentTypeJSON, host, strings.ToLower(action))

	canonicalURI := req.URL.Path
	if canonicalURI == "" {
		canonicalURI = "/"
	}

	canonicalRequest := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		req.Method,
		canonicalURI,
		req.URL.RawQuery,
		canonicalHeaders,
		signedHeaders,
		sha256Hex(body),
	)

	credentialScope := fmt.Sprintf("%s/%s/tc3_request", date, s.service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		signAlgorithm,
		timestamp,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	)

	secretDate := hmacSHA256([]byte("TC3"+s.secretKey), date)
	secretService := hmacSHA256(secretDate, s.service)
	secretSigning := hmacSHA256(secretService, "tc3_request")
	signature := hex.EncodeToString(hmacSHA256(secretSigning, stringToSign))

	req.Header.Set("Authorization", fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		signAlgorithm,
		s.secretID,
		credentialScope,
		signedHeaders,
		signature,
	))
}

// sha256Hex calculates SHA256 hash and returns hex string
func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hmacSHA256 calculates HMAC-SHA256
func hmacSHA256(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}
