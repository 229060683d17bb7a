package keeper

import (
	"math/big"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// mulDiv computes floor(a * b / c) for non-negative operands. The product is
// formed in big.Int so only the final result is bounded by sdkmath.MaxBitLen.
func mulDiv(a, b, c sdkmath.Int) (sdkmath.Int, error) {
	if c.IsZero() {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(types.ErrArithmeticOverflow, "division by zero: %s * %s / 0", a, b)
	}
	if a.IsZero() || b.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	result := product.Quo(product, c.BigInt())
	if result.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(types.ErrArithmeticOverflow, "%s * %s / %s", a, b, c)
	}
	return sdkmath.NewIntFromBigInt(result), nil
}

// safeAdd adds two amounts without panicking on overflow.
func safeAdd(a, b sdkmath.Int) (sdkmath.Int, error) {
	sum := new(big.Int).Add(a.BigInt(), b.BigInt())
	if sum.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(types.ErrArithmeticOverflow, "%s + %s", a, b)
	}
	return sdkmath.NewIntFromBigInt(sum), nil
}
