// Package eastmoney fetches industry boards and the limit-up pool from
// 东方财富 push2 endpoints and returns them as tables with akshare-style
// Chinese column names.
package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wonny/dragonboard/pkg/config"
	"github.com/wonny/dragonboard/pkg/httputil"
	"github.com/wonny/dragonboard/pkg/logger"
)

// 请求头 (模拟浏览器)
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer        = "https://quote.eastmoney.com/"
	acceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
)

// Fetch sources, used as metric labels
const (
	SourceSectorBoard = "sector_board"
	SourceLimitUpPool = "limit_up_pool"
)

// Fetch outcomes
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// FetchObserver receives one notification per upstream call
type FetchObserver interface {
	FetchAttempt(source, outcome string)
}

// Client handles communication with Eastmoney
// ⭐ SSOT: 东方财富接口调用只在这个客户端
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	boardURL   string
	ztPoolURL  string
	observer   FetchObserver
}

// NewClient creates a new Eastmoney client. Browser headers are installed on
// the shared http client.
func NewClient(httpClient *httputil.Client, cfg config.EastmoneyConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	httpClient.
		WithHeader("User-Agent", userAgent).
		WithHeader("Referer", referer).
		WithHeader("Accept", "application/json, text/plain, */*").
		WithHeader("Accept-Language", acceptLanguage)

	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("eastmoney"),
		boardURL:   cfg.BoardURL,
		ztPoolURL:  cfg.ZTPoolURL,
	}
}

// WithObserver attaches a fetch observer (metrics)
func (c *Client) WithObserver(o FetchObserver) *Client {
	c.observer = o
	return c
}

func (c *Client) observe(source, outcome string) {
	if c.observer != nil {
		c.observer.FetchAttempt(source, outcome)
	}
}

func (c *Client) getJSON(ctx context.Context, base string, params url.Values) ([]byte, error) {
	full := base
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		full = base + sep + params.Encode()
	}

	body, err := c.httpClient.GetBody(ctx, full)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON response (%d bytes)", len(body))
	}
	return body, nil
}

// cell converts a gjson value to a table cell. Eastmoney uses "-" for
// missing numbers.
func cell(r gjson.Result) any {
	switch r.Type {
	case gjson.Number:
		return r.Float()
	case gjson.String:
		s := strings.TrimSpace(r.String())
		if s == "" || s == "-" {
			return nil
		}
		return s
	default:
		return nil
	}
}

// clock formats an integer time like 92500 as "09:25:00"
func clock(r gjson.Result) any {
	if r.Type != gjson.Number {
		return cell(r)
	}
	s := fmt.Sprintf("%06d", r.Int())
	return s[0:2] + ":" + s[2:4] + ":" + s[4:6]
}
