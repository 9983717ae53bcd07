package sandbox

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/config"
)

// DefaultPoolAddress is used when the protocol file names no pool.
const DefaultPoolAddress = "red-bank"

// FromProtocolFile builds a world seeded with the prices, pool liquidity,
// vaults and funds of the protocol file.
func FromProtocolFile(identity string, file *config.ProtocolFile, now time.Time) (*World, error) {
	poolAddress := file.Pool.Address
	if poolAddress == "" {
		poolAddress = DefaultPoolAddress
	}
	w := NewWorld(identity, poolAddress, now)

	for _, c := range file.Coins {
		if c.Price != "" {
			price, err := decimal.NewFromString(c.Price)
			if err != nil {
				return nil, fmt.Errorf("price of %s: %w", c.Denom, err)
			}
			w.SetPrice(c.Denom, price)
		}
		if c.PoolLiquidity != "" {
			amount, ok := sdkmath.NewIntFromString(c.PoolLiquidity)
			if !ok {
				return nil, fmt.Errorf("pool liquidity of %s: invalid amount %q", c.Denom, c.PoolLiquidity)
			}
			w.Fund(poolAddress, domain.Coin{Denom: c.Denom, Amount: amount})
		}
	}

	for _, v := range file.Vaults {
		lockup, err := v.LockupDuration()
		if err != nil {
			return nil, err
		}
		w.AddVault(v.Address, domain.VaultInfo{BaseTokenDenom: v.BaseDenom, VaultTokenDenom: v.VaultDenom}, lockup)
	}

	for _, f := range file.Funds {
		for _, spec := range f.Coins {
			coin, err := spec.Coin()
			if err != nil {
				return nil, err
			}
			w.Fund(f.Holder, coin)
		}
	}
	return w, nil
}
