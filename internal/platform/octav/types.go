package octav

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/defidash/internal/domain"
)

// Wire types for the Octav portfolio endpoint. Octav sends numbers as
// strings in most places and as JSON numbers in a few; DecimalString
// accepts both. Fields the dashboard does not render are ignored.

// APIAsset is one token line inside a protocol position.
type APIAsset struct {
	Symbol   string               `json:"symbol"`
	Name     string               `json:"name"`
	ChainKey string               `json:"chainKey"`
	Contract string               `json:"contract"`
	Balance  domain.DecimalString `json:"balance"`
	Price    domain.DecimalString `json:"price"`
	Value    domain.DecimalString `json:"value"`
	ImgSmall string               `json:"imgSmall"`
}

// APIProtocolPosition groups the assets of one position type, e.g. the
// supplied and borrowed sides of a lending market.
type APIProtocolPosition struct {
	Name         string               `json:"name"`
	TotalValue   domain.DecimalString `json:"totalValue"`
	Assets       []APIAsset           `json:"assets"`
	SupplyAssets []APIAsset           `json:"supplyAssets"`
	BorrowAssets []APIAsset           `json:"borrowAssets"`
	RewardAssets []APIAsset           `json:"rewardAssets"`
}

// APIChain is a protocol's footprint on one chain.
type APIChain struct {
	Name              string                         `json:"name"`
	Key               string                         `json:"key"`
	Value             domain.DecimalString           `json:"value"`
	ProtocolPositions map[string]APIProtocolPosition `json:"protocolPositions"`
}

// APIProtocol is one protocol the wallet has exposure to.
type APIProtocol struct {
	Name     string               `json:"name"`
	Key      string               `json:"key"`
	Value    domain.DecimalString `json:"value"`
	ImgSmall string               `json:"imgSmall"`
	Chains   map[string]APIChain  `json:"chains"`
}

// APIPortfolio is one element of the /v1/portfolio response array.
type APIPortfolio struct {
	Address          string                 `json:"address"`
	Networth         domain.DecimalString   `json:"networth"`
	AssetByProtocols map[string]APIProtocol `json:"assetByProtocols"`
}

// ToDomain flattens the protocol -> chain -> position tree into the
// dashboard's positions and assets lists. Map iteration is sorted so the
// output is stable. When networth is absent the total is the sum of the
// position values.
func (p *APIPortfolio) ToDomain(address string) domain.Portfolio {
	out := domain.EmptyPortfolio(address)
	sum := decimal.Zero

	for _, protoKey := range sortedKeys(p.AssetByProtocols) {
		proto := p.AssetByProtocols[protoKey]
		protoName := firstNonEmpty(proto.Name, protoKey)

		for _, chainKey := range sortedKeys(proto.Chains) {
			chain := proto.Chains[chainKey]
			chainName := firstNonEmpty(chain.Key, chainKey)

			for _, posKey := range sortedKeys(chain.ProtocolPositions) {
				pos := chain.ProtocolPositions[posKey]

				assets := make([]domain.Asset, 0, len(pos.Assets)+len(pos.SupplyAssets))
				assets = appendAssets(assets, pos.Assets, "asset", protoName, chainName)
				assets = appendAssets(assets, pos.SupplyAssets, "supply", protoName, chainName)
				assets = appendAssets(assets, pos.BorrowAssets, "borrow", protoName, chainName)
				assets = appendAssets(assets, pos.RewardAssets, "reward", protoName, chainName)

				value := parseDecimal(pos.TotalValue)
				if pos.TotalValue == "" {
					value = assetTotal(assets)
				}
				sum = sum.Add(value)

				out.Positions = append(out.Positions, domain.Position{
					Protocol:    protoName,
					ProtocolKey: protoKey,
					Chain:       chainName,
					Name:        firstNonEmpty(pos.Name, posKey),
					ValueUSD:    value.InexactFloat64(),
					Assets:      assets,
					Image:       proto.ImgSmall,
				})
				out.Assets = append(out.Assets, assets...)
			}
		}
	}

	total := sum
	if p.Networth != "" {
		total = parseDecimal(p.Networth)
	}
	out.TotalValueUSD = total.InexactFloat64()
	return out
}

func appendAssets(dst []domain.Asset, src []APIAsset, kind, protocol, chain string) []domain.Asset {
	for _, a := range src {
		value := parseDecimal(a.Value)
		if kind == "borrow" {
			value = value.Abs().Neg()
		}
		dst = append(dst, domain.Asset{
			Symbol:   strings.ToUpper(a.Symbol),
			Name:     a.Name,
			Chain:    firstNonEmpty(a.ChainKey, chain),
			Contract: a.Contract,
			Protocol: protocol,
			Kind:     kind,
			Balance:  firstNonEmpty(a.Balance.String(), "0"),
			PriceUSD: parseDecimal(a.Price).InexactFloat64(),
			ValueUSD: value.InexactFloat64(),
			Image:    a.ImgSmall,
		})
	}
	return dst
}

func assetTotal(assets []domain.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(decimal.NewFromFloat(a.ValueUSD))
	}
	return total
}

func parseDecimal(s domain.DecimalString) decimal.Decimal {
	d, err := decimal.NewFromString(s.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
