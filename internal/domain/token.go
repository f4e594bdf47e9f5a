package domain

import (
	"encoding/json"
	"strings"
)

// DecimalString unmarshals from a JSON string or a JSON number so numeric
// fields survive clients and upstreams that disagree on quoting. The raw text
// is kept as-is; no float conversion takes place.
type DecimalString string

func (d *DecimalString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = DecimalString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = DecimalString(n.String())
	return nil
}

func (d DecimalString) String() string {
	return string(d)
}

// TokenAmount is a human-readable token quantity together with the number of
// fractional digits of the token's on-chain base unit.
type TokenAmount struct {
	Value    string `json:"value"`
	Decimals int    `json:"decimals"`
}

// TokenInfo is token metadata as reported by the swap aggregator.
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// Tx is an unsigned EVM transaction ready for the wallet to sign. Value and
// GasPrice are base-unit integers in decimal form.
type Tx struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	Gas      uint64 `json:"gas,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
}
