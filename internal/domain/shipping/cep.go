package shipping

import (
	"strconv"
	"strings"

	"github.com/mydfacylita/backend/internal/domain/shared"
)

// CEP is a normalized 8-digit Brazilian postal code
type CEP string

// ParseCEP normalizes a CEP string ("01310-100", "01310100") to 8 digits
func ParseCEP(raw string) (CEP, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 8 {
		return "", shared.NewDomainError("INVALID_CEP", "CEP must contain exactly 8 digits")
	}
	return CEP(digits), nil
}

// String returns the raw 8-digit form
func (c CEP) String() string {
	return string(c)
}

// Formatted returns the conventional "00000-000" form
func (c CEP) Formatted() string {
	if len(c) != 8 {
		return string(c)
	}
	return string(c[:5]) + "-" + string(c[5:])
}

// Prefix returns the leading 5 digits as an integer, used for range checks
func (c CEP) Prefix() int {
	n, _ := strconv.Atoi(string(c[:5]))
	return n
}

// Number returns the full 8-digit CEP as an integer
func (c CEP) Number() int {
	n, _ := strconv.Atoi(string(c))
	return n
}

// cepRange maps a CEP prefix interval to a state code (UF).
// The intervals follow the official Correios allocation of CEP faixas.
type cepRange struct {
	lo, hi int
	uf     string
}

var cepRanges = []cepRange{
	{1000, 19999, "SP"},
	{20000, 28999, "RJ"},
	{29000, 29999, "ES"},
	{30000, 39999, "MG"},
	{40000, 48999, "BA"},
	{49000, 49999, "SE"},
	{50000, 56999, "PE"},
	{57000, 57999, "AL"},
	{58000, 58999, "PB"},
	{59000, 59999, "RN"},
	{60000, 63999, "CE"},
	{64000, 64999, "PI"},
	{65000, 65999, "MA"},
	{66000, 68899, "PA"},
	{68900, 68999, "AP"},
	{69000, 69299, "AM"},
	{69300, 69399, "RR"},
	{69400, 69899, "AM"},
	{69900, 69999, "AC"},
	{70000, 72799, "DF"},
	{72800, 72999, "GO"},
	{73000, 73699, "DF"},
	{73700, 76799, "GO"},
	{76800, 76999, "RO"},
	{77000, 77999, "TO"},
	{78000, 78899, "MT"},
	{79000, 79999, "MS"},
	{80000, 87999, "PR"},
	{88000, 89999, "SC"},
	{90000, 99999, "RS"},
}

// StateCode returns the UF the CEP belongs to, or "" when the prefix is
// outside every allocated faixa.
func (c CEP) StateCode() string {
	prefix := c.Prefix()
	for _, r := range cepRanges {
		if prefix >= r.lo && prefix <= r.hi {
			return r.uf
		}
	}
	return ""
}
