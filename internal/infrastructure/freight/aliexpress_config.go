package freight

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"
)

// AliExpressDefaultAPIURL is the production gateway endpoint
const AliExpressDefaultAPIURL = "https://api-sg.aliexpress.com/sync"

// Errors for AliExpress configuration
var (
	ErrAliExpressMissingAppKey     = errors.New("aliexpress: app key is required")
	ErrAliExpressMissingAppSecret  = errors.New("aliexpress: app secret is required")
	ErrAliExpressMissingSessionKey = errors.New("aliexpress: session key is required")
)

// AliExpressConfig holds credentials and endpoints for the marketplace API
type AliExpressConfig struct {
	// AppKey is the application key from the AliExpress open platform
	AppKey string
	// AppSecret is the shared secret used to sign every request
	AppSecret string
	// SessionKey is the seller access token for API authorization
	SessionKey string
	// APIBaseURL is the gateway endpoint all methods are POSTed to
	APIBaseURL string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// Validate validates the configuration and fills endpoint defaults
func (c *AliExpressConfig) Validate() error {
	if c.AppKey == "" {
		return ErrAliExpressMissingAppKey
	}
	if c.AppSecret == "" {
		return ErrAliExpressMissingAppSecret
	}
	if c.SessionKey == "" {
		return ErrAliExpressMissingSessionKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = AliExpressDefaultAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	return nil
}

// Sign generates the request signature. The gateway requires HMAC-SHA256
// over the alphabetically sorted key+value concatenation of every parameter
// except "sign", hex-encoded and upper-cased. The canonicalization must be
// reproduced exactly or the gateway rejects the call with IncompleteSignature.
func (c *AliExpressConfig) Sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "sign" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, k := range keys {
		builder.WriteString(k)
		builder.WriteString(params[k])
	}

	h := hmac.New(sha256.New, []byte(c.AppSecret))
	h.Write([]byte(builder.String()))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}
