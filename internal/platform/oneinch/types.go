package oneinch

import (
	"encoding/json"

	"github.com/alanyoungcy/defidash/internal/domain"
)

// Wire types for the 1inch Swap API v6. Only the fields the dashboard uses
// are declared; unknown fields are ignored by encoding/json.

// APIToken is token metadata included when includeTokensInfo=true.
type APIToken struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI"`
}

// ToDomain converts the wire token to a domain.TokenInfo.
func (t *APIToken) ToDomain() *domain.TokenInfo {
	if t == nil {
		return nil
	}
	return &domain.TokenInfo{
		Address:  t.Address,
		Symbol:   t.Symbol,
		Name:     t.Name,
		Decimals: t.Decimals,
		LogoURI:  t.LogoURI,
	}
}

// APIRouteHop is one protocol hop inside the nested protocols array.
type APIRouteHop struct {
	Name             string  `json:"name"`
	Part             float64 `json:"part"`
	FromTokenAddress string  `json:"fromTokenAddress"`
	ToTokenAddress   string  `json:"toTokenAddress"`
}

// APIQuote is the body of GET /quote.
type APIQuote struct {
	DstAmount string            `json:"dstAmount"`
	SrcToken  *APIToken         `json:"srcToken"`
	DstToken  *APIToken         `json:"dstToken"`
	Protocols [][][]APIRouteHop `json:"protocols"`
	Gas       json.Number       `json:"gas"`
}

// ToDomain converts the wire quote to a domain.AggregatorQuote.
func (q *APIQuote) ToDomain() domain.AggregatorQuote {
	out := domain.AggregatorQuote{
		DstAmount: q.DstAmount,
		SrcToken:  q.SrcToken.ToDomain(),
		DstToken:  q.DstToken.ToDomain(),
		Protocols: make([][][]domain.RouteHop, 0, len(q.Protocols)),
		Gas:       parseGas(q.Gas),
	}
	for _, route := range q.Protocols {
		steps := make([][]domain.RouteHop, 0, len(route))
		for _, step := range route {
			hops := make([]domain.RouteHop, 0, len(step))
			for _, h := range step {
				hops = append(hops, domain.RouteHop(h))
			}
			steps = append(steps, hops)
		}
		out.Protocols = append(out.Protocols, steps)
	}
	return out
}

// APITx is the transaction object returned by /swap and /approve/transaction.
type APITx struct {
	From     string      `json:"from"`
	To       string      `json:"to"`
	Data     string      `json:"data"`
	Value    string      `json:"value"`
	Gas      json.Number `json:"gas"`
	GasPrice string      `json:"gasPrice"`
}

// ToDomain converts the wire transaction to a domain.Tx.
func (t APITx) ToDomain() domain.Tx {
	value := t.Value
	if value == "" {
		value = "0"
	}
	return domain.Tx{
		From:     t.From,
		To:       t.To,
		Data:     t.Data,
		Value:    value,
		Gas:      parseGas(t.Gas),
		GasPrice: t.GasPrice,
	}
}

// APISwap is the body of GET /swap.
type APISwap struct {
	DstAmount string `json:"dstAmount"`
	Tx        APITx  `json:"tx"`
}

type apiAllowance struct {
	Allowance string `json:"allowance"`
}

type apiSpender struct {
	Address string `json:"address"`
}

func parseGas(n json.Number) uint64 {
	if n == "" {
		return 0
	}
	v, err := n.Int64()
	if err != nil || v < 0 {
		return 0
	}
	return uint64(v)
}
