package octav

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/defidash/internal/domain"
)

const wallet = "0x52908400098527886E0F7030069857D2E4169EE7"

const portfolioBody = `[{
	"address": "0x52908400098527886e0f7030069857d2e4169ee7",
	"networth": "1530.5",
	"cashBalance": "0",
	"assetByProtocols": {
		"wallet": {
			"name": "Wallet",
			"key": "wallet",
			"value": "1030.5",
			"chains": {
				"ethereum": {
					"name": "Ethereum",
					"key": "ethereum",
					"protocolPositions": {
						"WALLET": {
							"name": "wallet",
							"totalValue": "1030.5",
							"assets": [
								{"symbol": "eth", "name": "Ether", "chainKey": "ethereum", "balance": "0.3", "price": "3000", "value": "900"},
								{"symbol": "usdc", "name": "USD Coin", "chainKey": "ethereum", "balance": "130.5", "price": 1, "value": 130.5, "contract": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"}
							]
						}
					}
				}
			}
		},
		"aave_v3": {
			"name": "Aave V3",
			"key": "aave_v3",
			"imgSmall": "https://images.octav.fi/aave.png",
			"chains": {
				"arbitrum": {
					"key": "arbitrum",
					"protocolPositions": {
						"LENDING": {
							"name": "lending",
							"supplyAssets": [{"symbol": "usdc", "balance": "700", "price": "1", "value": "700"}],
							"borrowAssets": [{"symbol": "weth", "balance": "0.0666", "price": "3000", "value": "200"}]
						}
					}
				}
			}
		}
	}
}]`

func TestPortfolio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v1/portfolio", r.URL.Path)
		assert.Equal(t, wallet, q.Get("addresses"))
		assert.Equal(t, "true", q.Get("includeImages"))
		assert.Equal(t, "false", q.Get("waitForSync"))
		assert.Equal(t, "Bearer octav-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(portfolioBody))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "octav-key"})
	got, err := c.Portfolio(context.Background(), domain.PortfolioRequest{Address: wallet, IncludeImages: true})
	require.NoError(t, err)

	assert.Equal(t, wallet, got.Address)
	assert.InDelta(t, 1530.5, got.TotalValueUSD, 1e-9)

	require.Len(t, got.Positions, 2)
	// Protocol keys are visited in sorted order: aave_v3 before wallet.
	lending := got.Positions[0]
	assert.Equal(t, "Aave V3", lending.Protocol)
	assert.Equal(t, "arbitrum", lending.Chain)
	assert.InDelta(t, 500, lending.ValueUSD, 1e-9)
	require.Len(t, lending.Assets, 2)
	assert.Equal(t, "supply", lending.Assets[0].Kind)
	assert.Equal(t, "borrow", lending.Assets[1].Kind)
	assert.InDelta(t, -200, lending.Assets[1].ValueUSD, 1e-9)

	walletPos := got.Positions[1]
	assert.Equal(t, "Wallet", walletPos.Protocol)
	assert.InDelta(t, 1030.5, walletPos.ValueUSD, 1e-9)

	require.Len(t, got.Assets, 4)
	assert.Equal(t, "ETH", got.Assets[2].Symbol)
	assert.InDelta(t, 130.5, got.Assets[3].ValueUSD, 1e-9)
}

func TestPortfolioTotalWithoutNetworth(t *testing.T) {
	p := APIPortfolio{
		AssetByProtocols: map[string]APIProtocol{
			"wallet": {Chains: map[string]APIChain{
				"base": {ProtocolPositions: map[string]APIProtocolPosition{
					"WALLET": {Assets: []APIAsset{{Symbol: "usdc", Value: "12.25"}, {Symbol: "eth", Value: "7.75"}}},
				}},
			}},
		},
	}

	got := p.ToDomain(wallet)
	assert.InDelta(t, 20, got.TotalValueUSD, 1e-9)
	require.Len(t, got.Positions, 1)
	assert.Equal(t, "wallet", got.Positions[0].Protocol)
	assert.Equal(t, "base", got.Positions[0].Chain)
	assert.Equal(t, "0", got.Assets[0].Balance)
}

func TestPortfolioUnknownAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"}).Portfolio(context.Background(), domain.PortfolioRequest{Address: wallet})
	require.NoError(t, err)
	assert.Empty(t, got.Positions)
	assert.NotNil(t, got.Assets)
	assert.Zero(t, got.TotalValueUSD)
}

func TestPortfolioUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL, APIKey: "bad"}).Portfolio(context.Background(), domain.PortfolioRequest{Address: wallet})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
