package pendle

import (
	"strconv"

	"github.com/alanyoungcy/defidash/internal/domain"
)

// Wire types for the Pendle hosted SDK API. Extra fields such as
// contractCallParams are ignored.

// APITx is the transaction object of an SDK response.
type APITx struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// APITokenApproval is an approval the caller must hold before sending tx.
type APITokenApproval struct {
	Token  string               `json:"token"`
	Amount domain.DecimalString `json:"amount"`
}

// APILiquidityData carries the simulated outputs of the action.
type APILiquidityData struct {
	AmountLPOut domain.DecimalString `json:"amountLpOut"`
	AmountYTOut domain.DecimalString `json:"amountYtOut"`
	AmountOut   domain.DecimalString `json:"amountOut"`
	PriceImpact domain.DecimalString `json:"priceImpact"`
}

// APILiquidityResponse is the body of the add-liquidity and
// remove-liquidity endpoints.
type APILiquidityResponse struct {
	Method         string             `json:"method"`
	Tx             APITx              `json:"tx"`
	TokenApprovals []APITokenApproval `json:"tokenApprovals"`
	Data           APILiquidityData   `json:"data"`
}

// ToDomain converts the response into a domain.LiquidityResult for req.
func (r *APILiquidityResponse) ToDomain(req domain.LiquidityRequest) domain.LiquidityResult {
	value := r.Tx.Value
	if value == "" {
		value = "0"
	}
	from := r.Tx.From
	if from == "" {
		from = req.Receiver
	}

	approvals := make([]domain.TokenApproval, 0, len(r.TokenApprovals))
	for _, a := range r.TokenApprovals {
		approvals = append(approvals, domain.TokenApproval{Token: a.Token, Amount: a.Amount.String()})
	}

	res := domain.LiquidityResult{
		Action:         req.Action,
		LPToken:        req.LPToken,
		Tx:             domain.Tx{From: from, To: r.Tx.To, Data: r.Tx.Data, Value: value},
		TokenApprovals: approvals,
		AmountOut:      r.Data.AmountOut.String(),
		AmountLPOut:    r.Data.AmountLPOut.String(),
		AmountYTOut:    r.Data.AmountYTOut.String(),
		PriceImpact:    parseFloat(r.Data.PriceImpact),
	}
	if req.ZPIMode {
		res.YTToken = req.YTToken
	}
	return res
}

func parseFloat(d domain.DecimalString) float64 {
	if d == "" {
		return 0
	}
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
