package leader

import (
	"sort"
	"strings"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/table"
)

// SortKey is one component of the composite leaderboard order
type SortKey struct {
	Name    string
	compare func(a, b contracts.LimitUpRow) int
}

var (
	// KeyConsecutive orders by 连板数, descending
	KeyConsecutive = SortKey{Name: "consecutive_limit_days", compare: func(a, b contracts.LimitUpRow) int {
		return cmpInt(b.ConsecutiveLimitDays, a.ConsecutiveLimitDays)
	}}
	// KeyChange orders by 涨跌幅, descending
	KeyChange = SortKey{Name: "change_percent", compare: func(a, b contracts.LimitUpRow) int {
		return cmpFloat(b.ChangePercent, a.ChangePercent)
	}}
	// KeyLockupStrength orders by 封板强度, descending
	KeyLockupStrength = SortKey{Name: "lockup_strength", compare: func(a, b contracts.LimitUpRow) int {
		return cmpFloat(b.LockupStrength, a.LockupStrength)
	}}
	// KeyLastLockTime orders by 最后封板时间, ascending (earlier lock first)
	KeyLastLockTime = SortKey{Name: "last_lock_time", compare: func(a, b contracts.LimitUpRow) int {
		return strings.Compare(a.LastLockTime, b.LastLockTime)
	}}
)

// KeysFor returns the composite sort keys whose source columns are bound,
// in priority order. Unbound keys are dropped; the rest keep their order.
func KeysFor(b table.Binding) []SortKey {
	var keys []SortKey
	if b.Has(FieldConsecutive) {
		keys = append(keys, KeyConsecutive)
	}
	if b.Has(FieldChangePercent) {
		keys = append(keys, KeyChange)
	}
	if b.Has(FieldLockupFunds) && b.Has(FieldTurnover) {
		keys = append(keys, KeyLockupStrength)
	}
	if b.Has(FieldLastLockTime) {
		keys = append(keys, KeyLastLockTime)
	}
	return keys
}

// KeyNames lists key names for reporting
func KeyNames(keys []SortKey) []string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Name)
	}
	return names
}

// Sort orders rows in place by keys. Rows equal on every key keep their
// fetch order.
func Sort(rows []contracts.LimitUpRow, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			if c := k.compare(rows[i], rows[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
