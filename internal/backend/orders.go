package backend

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trivex/trivex-go/internal/domain"
	"github.com/trivex/trivex-go/internal/ports"
)

const statusSuccess = "Success"

// OpenOrder submits an open-trade request. Sector and symbol must be
// non-empty; that is checked here as the last line of defense even though
// the controller validates before calling. Success is synchronous with the
// HTTP response.
func (c *Client) OpenOrder(ctx context.Context, req ports.OpenOrderRequest) error {
	if req.Sector == "" || req.Symbol == "" {
		return domain.Validationf("open order", "sector and symbol are required")
	}

	body := openOrderBody{
		Wallet:   req.Wallet,
		IsBuy:    req.IsBuy,
		Symbol:   req.Symbol,
		Size:     req.Size,
		Sector:   string(req.Sector),
		Leverage: req.Leverage,
	}
	var resp statusResponse
	if err := c.post(ctx, "/open", body, &resp); err != nil {
		return err
	}
	if resp.Status != statusSuccess {
		log.WithFields(map[string]interface{}{
			"symbol": req.Symbol,
			"status": resp.Status,
		}).Warn("open order rejected")
		return domain.NewFault(domain.FaultTransaction, "POST /open",
			errors.Errorf("backend status %q", resp.Status))
	}
	return nil
}

// CloseOrder closes the position for symbol within sector.
func (c *Client) CloseOrder(ctx context.Context, symbol string, sector domain.Sector) error {
	body := closeOrderBody{Symbol: symbol, Sector: string(sector)}
	var resp statusResponse
	if err := c.post(ctx, "/close", body, &resp); err != nil {
		return err
	}
	if resp.Status != statusSuccess {
		log.WithField("symbol", symbol).Warn("close order rejected")
		return domain.NewFault(domain.FaultTransaction, "POST /close",
			errors.Errorf("backend status %q", resp.Status))
	}
	return nil
}
