package decimals

import (
	"math"
	"math/big"
	"reflect"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

const (
	DefaultDivPrecision = 36

	// NearDecimals is the number of yoctoNEAR digits in one NEAR.
	NearDecimals = 24
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal convert any integer-like value to decimal.Decimal scaled down by decimals.
func ToDecimal[T constraints.Integer](ivalue any, decimals T) decimal.Decimal {
	value := new(big.Int)
	switch v := ivalue.(type) {
	case string:
		value.SetString(v, 10)
	case *big.Int:
		value = v
	case int64:
		value = big.NewInt(v)
	case int, int8, int16, int32:
		rValue := reflect.ValueOf(v)
		value.SetInt64(rValue.Int())
	case uint64:
		value = big.NewInt(0).SetUint64(v)
	case uint, uint8, uint16, uint32:
		rValue := reflect.ValueOf(v)
		value.SetUint64(rValue.Uint())
	case uint128.Uint128:
		value = v.Big()
	case *uint128.Uint128:
		if v != nil {
			value = v.Big()
		}
	}

	switch {
	case int64(decimals) > math.MaxInt32:
		logger.Panic("ToDecimal: decimals is too big, should be equal less than 2^31-1", slogx.Any("decimals", decimals))
	case int64(decimals) < math.MinInt32+1:
		logger.Panic("ToDecimal: decimals is too small, should be greater than -2^31", slogx.Any("decimals", decimals))
	}

	return decimal.NewFromBigInt(value, -int32(decimals))
}

// YoctoToNear converts a yoctoNEAR amount to NEAR.
func YoctoToNear(amount uint128.Uint128) decimal.Decimal {
	return ToDecimal(amount, NearDecimals)
}

// ToBigInt convert any type to *big.Int
func ToBigInt(iamount any, decimals uint16) *big.Int {
	amount := decimal.NewFromFloat(0)
	switch v := iamount.(type) {
	case string:
		amount, _ = decimal.NewFromString(v)
	case float64:
		amount = decimal.NewFromFloat(v)
	case float32:
		amount = decimal.NewFromFloat32(v)
	case int64:
		amount = decimal.NewFromInt(v)
	case int, int8, int16, int32:
		rValue := reflect.ValueOf(v)
		amount = decimal.NewFromInt(rValue.Int())
	case decimal.Decimal:
		amount = v
	case *decimal.Decimal:
		amount = *v
	case big.Float:
		amount, _ = decimal.NewFromString(v.String())
	case *big.Float:
		amount, _ = decimal.NewFromString(v.String())
	}
	return amount.Mul(PowerOfTen(decimals)).BigInt()
}

// ToUint128 convert any type to uint128.Uint128 scaled up by decimals.
func ToUint128(iamount any, decimals uint16) uint128.Uint128 {
	value := ToBigInt(iamount, decimals)
	if value.Sign() < 0 || value.BitLen() > 128 {
		logger.Panic("ToUint128: overflow", slogx.Any("amount", iamount), slogx.Int("decimals", int(decimals)))
	}
	result, err := uint128.FromBig(value)
	if err != nil {
		logger.Panic("ToUint128: can't convert to uint128", slogx.Error(err), slogx.Any("amount", iamount))
	}
	return result
}

// NearToYocto converts a NEAR amount to yoctoNEAR.
func NearToYocto(iamount any) uint128.Uint128 {
	return ToUint128(iamount, NearDecimals)
}
