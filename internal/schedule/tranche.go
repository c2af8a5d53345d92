package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Month is the length of one vesting month in seconds.
const Month = 30 * 24 * 3600

// Tranche 分配类别，数值即注册表中的 schedule id
type Tranche uint64

const (
	Seed Tranche = iota
	Strategic
	Private
	Public
	Team
	Marketing
	Liquidity
	Ecosystem
	Rewards
	Reserve
)

var trancheNames = [...]string{
	"SEED",
	"STRATEGIC",
	"PRIVATE",
	"PUBLIC",
	"TEAM",
	"MARKETING",
	"LIQUIDITY",
	"ECOSYSTEM",
	"REWARDS",
	"RESERVE",
}

// trancheMonths 各类别的释放月数，顺序与 id 一致
var trancheMonths = [...]int64{12, 10, 8, 4, 24, 36, 0, 36, 24, 24}

func (t Tranche) String() string {
	if int(t) < len(trancheNames) {
		return trancheNames[t]
	}
	return "TRANCHE(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// ID 返回注册表中的 schedule id
func (t Tranche) ID() uint64 {
	return uint64(t)
}

// ParseTranche 解析类别名称（不区分大小写）或数字 id
func ParseTranche(s string) (Tranche, error) {
	s = strings.TrimSpace(s)
	for i, name := range trancheNames {
		if strings.EqualFold(s, name) {
			return Tranche(i), nil
		}
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown tranche %q", s)
	}
	return Tranche(id), nil
}

// Tranches 返回所有已命名的类别
func Tranches() []Tranche {
	out := make([]Tranche, len(trancheNames))
	for i := range out {
		out[i] = Tranche(i)
	}
	return out
}

// Months converts a number of vesting months to seconds.
func Months(n int64) int64 {
	return n * Month
}

// DefaultDurations 返回默认类别表的时长（秒）
func DefaultDurations() []int64 {
	out := make([]int64, len(trancheMonths))
	for i, m := range trancheMonths {
		out[i] = Months(m)
	}
	return out
}
