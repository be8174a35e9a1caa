// Package backend is the off-chain collaborator: the REST surface serving
// market data, the custodial ledger and order submission. One client backs
// both the trade page and the settings page; callers differ only in which
// reads they consume.
package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/trivex/trivex-go/internal/domain"
	"github.com/trivex/trivex-go/internal/session"
	"github.com/trivex/trivex-go/pkg/ratelimit"
)

var log = logrus.WithField("component", "backend")

// Client talks to the trivex backend. Every operation is a single attempt:
// retry policy belongs to the user pressing refresh, not the transport.
type Client struct {
	http    *resty.Client
	sess    *session.Session
	limiter *ratelimit.TokenBucket
}

// NewClient creates a backend client bound to one session.
func NewClient(host string, sess *session.Session) *Client {
	host = strings.TrimSuffix(host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}

	client := resty.New().
		SetBaseURL(host).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		http: client,
		sess: sess,
		// Pace bursts from rapid selection changes; single requests never wait.
		limiter: ratelimit.NewTokenBucket(20, 10),
	}
}

// Session returns the session this client was constructed with.
func (c *Client) Session() *session.Session {
	return c.sess
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.NewFault(domain.FaultNetwork, "GET "+path, err)
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(out).
		Get(path)
	if err != nil {
		return domain.NewFault(domain.FaultNetwork, "GET "+path, err)
	}
	if resp.IsError() {
		return domain.NewFault(domain.FaultNetwork, "GET "+path,
			errors.Errorf("http %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body()))))
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.NewFault(domain.FaultNetwork, "POST "+path, err)
	}
	r := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if out != nil {
		r.SetResult(out)
	}
	resp, err := r.Post(path)
	if err != nil {
		return domain.NewFault(domain.FaultNetwork, "POST "+path, err)
	}
	if resp.IsError() {
		return domain.NewFault(domain.FaultNetwork, "POST "+path,
			errors.Errorf("http %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body()))))
	}
	return nil
}

func walletPath(address, leaf string) string {
	return fmt.Sprintf("/wallets/%s/%s", address, leaf)
}
