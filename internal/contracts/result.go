package contracts

import (
	"errors"
	"time"
)

// NoDataReason explains why a view carries no rows.
// An empty reason means the view is populated.
// ⭐ SSOT: "无数据" 的原因只在这里定义
type NoDataReason string

const (
	NoDataNone          NoDataReason = ""
	NoDataEmptyUpstream NoDataReason = "empty_upstream"    // 上游返回空表
	NoDataUpstreamError NoDataReason = "upstream_error"    // 上游请求/解析失败
	NoDataExhausted     NoDataReason = "exhausted_retries" // 回溯窗口内全部候选日无数据
)

// Valid reports whether r is one of the known reasons
func (r NoDataReason) Valid() bool {
	switch r {
	case NoDataNone, NoDataEmptyUpstream, NoDataUpstreamError, NoDataExhausted:
		return true
	}
	return false
}

// Stamp is the common metadata of every computed view
type Stamp struct {
	FetchedAt time.Time    `json:"fetched_at"`
	NoData    NoDataReason `json:"no_data,omitempty"`
	Detail    string       `json:"detail,omitempty"` // advisory diagnostic, never drives control flow
}

// ErrNoData is returned by fetchers when the upstream answered but carried
// no rows (market closed, non-trading day, not yet published).
var ErrNoData = errors.New("upstream returned no data")
