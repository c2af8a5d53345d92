package types

import (
	"fmt"
	"math/big"
	"strings"

	big2 "github.com/filecoin-project/go-state-types/big"
)

// LegendPrecision is the number of token bits in 1 LEGEND.
const LegendPrecision = uint64(1_000_000_000_000_000_000)

// LegendDecimals LEGEND 小数位数
const LegendDecimals = 18

type BigInt = big2.Int

var EmptyInt = BigInt{}

func NewInt(i uint64) BigInt {
	return BigInt{Int: big.NewInt(0).SetUint64(i)}
}

func FromLegend(i uint64) BigInt {
	return BigMul(NewInt(i), NewInt(LegendPrecision))
}

func BigMul(a, b BigInt) BigInt {
	return big2.Mul(a, b)
}

func BigDiv(a, b BigInt) BigInt {
	return big2.Div(a, b)
}

func BigAdd(a, b BigInt) BigInt {
	return big2.Add(a, b)
}

func BigSub(a, b BigInt) BigInt {
	return big2.Sub(a, b)
}

func BigCmp(a, b BigInt) int {
	return big2.Cmp(a, b)
}

// LEGEND 以 LEGEND 为单位显示的代币数量
type LEGEND BigInt

func (l LEGEND) String() string {
	return l.Unitless() + " LEGEND"
}

// Unitless 返回不带单位的十进制表示，去掉末尾的 0
func (l LEGEND) Unitless() string {
	if l.Int == nil {
		return "0"
	}
	r := new(big.Rat).SetFrac(l.Int, new(big.Int).SetUint64(LegendPrecision))
	if r.Sign() == 0 {
		return "0"
	}
	return strings.TrimRight(strings.TrimRight(r.FloatString(LegendDecimals), "0"), ".")
}

// Bits 返回最小单位的数量
func (l LEGEND) Bits() BigInt {
	return BigInt(l)
}

// ParseLegend 解析代币数量字符串
// 支持 "12.5"、"12.5 LEGEND" 以及 "1000 bits"（最小单位）
func ParseLegend(s string) (LEGEND, error) {
	s = strings.TrimSpace(s)
	suffix := strings.TrimLeft(s, "-.1234567890")
	s = strings.TrimSpace(s[:len(s)-len(suffix)])

	bits := false
	switch strings.ToLower(strings.TrimSpace(suffix)) {
	case "", "legend":
	case "bits", "legendbits":
		bits = true
	default:
		return LEGEND{}, fmt.Errorf("unrecognized suffix: %q", suffix)
	}

	if len(s) > 64 {
		return LEGEND{}, fmt.Errorf("string length too large: %d", len(s))
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return LEGEND{}, fmt.Errorf("failed to parse %q as a decimal number", s)
	}
	if r.Sign() < 0 {
		return LEGEND{}, fmt.Errorf("negative amount: %q", s)
	}

	if !bits {
		r = r.Mul(r, new(big.Rat).SetInt(new(big.Int).SetUint64(LegendPrecision)))
	}
	if !r.IsInt() {
		return LEGEND{}, fmt.Errorf("invalid LEGEND value: %q has fractional token bits", s)
	}

	return LEGEND{Int: new(big.Int).Set(r.Num())}, nil
}
