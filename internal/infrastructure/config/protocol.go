package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/iho/creditledger/internal/domain"
)

// ProtocolFile is the YAML layout of the protocol parameters file. Amounts,
// prices and ratios are strings so no precision is lost on decode.
type ProtocolFile struct {
	Params struct {
		MaxCloseFactor        string `yaml:"max_close_factor"`
		MaxUnlockingPositions int    `yaml:"max_unlocking_positions"`
		LiquidationBonus      string `yaml:"liquidation_bonus"`
	} `yaml:"params"`
	Coins              []CoinFile  `yaml:"coins"`
	Vaults             []VaultFile `yaml:"vaults"`
	ProtocolPrincipals []string    `yaml:"protocol_principals"`
	Pool               struct {
		Address string `yaml:"address"`
	} `yaml:"pool"`
	Funds []FundsFile `yaml:"funds"`
}

// CoinFile is a whitelisted coin with its sandbox market data.
type CoinFile struct {
	Denom                string `yaml:"denom"`
	Price                string `yaml:"price"`
	MaxLTV               string `yaml:"max_ltv"`
	LiquidationThreshold string `yaml:"liquidation_threshold"`
	PoolLiquidity        string `yaml:"pool_liquidity"`
}

// VaultFile configures one external vault.
type VaultFile struct {
	Address              string   `yaml:"address"`
	BaseDenom            string   `yaml:"base_denom"`
	VaultDenom           string   `yaml:"vault_denom"`
	Lockup               string   `yaml:"lockup"`
	Whitelisted          bool     `yaml:"whitelisted"`
	DepositCap           CoinSpec `yaml:"deposit_cap"`
	MaxLTV               string   `yaml:"max_ltv"`
	LiquidationThreshold string   `yaml:"liquidation_threshold"`
}

// FundsFile seeds the bank balance of a sandbox principal.
type FundsFile struct {
	Holder string     `yaml:"holder"`
	Coins  []CoinSpec `yaml:"coins"`
}

// CoinSpec is a denom and an integer amount.
type CoinSpec struct {
	Denom  string `yaml:"denom"`
	Amount string `yaml:"amount"`
}

// Coin parses the entry into a domain coin.
func (c CoinSpec) Coin() (domain.Coin, error) {
	amount, ok := sdkmath.NewIntFromString(c.Amount)
	if !ok {
		return domain.Coin{}, errorsmod.Wrapf(domain.ErrInvalidParams, "amount %q of %s", c.Amount, c.Denom)
	}
	return domain.Coin{Denom: c.Denom, Amount: amount}, nil
}

// LoadProtocolFile reads and parses a protocol parameters file.
func LoadProtocolFile(path string) (*ProtocolFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read protocol file: %w", err)
	}
	return ParseProtocolFile(data)
}

// ParseProtocolFile parses protocol parameters from YAML.
func ParseProtocolFile(data []byte) (*ProtocolFile, error) {
	file := &ProtocolFile{}
	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("parse protocol file: %w", err)
	}
	return file, nil
}

// Lockup parses the vault lockup duration. An empty lockup means none.
func (v VaultFile) LockupDuration() (time.Duration, error) {
	if v.Lockup == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v.Lockup)
	if err != nil || d < 0 {
		return 0, errorsmod.Wrapf(domain.ErrInvalidParams, "vault %s lockup %q", v.Address, v.Lockup)
	}
	return d, nil
}

// Protocol serves the validated protocol configuration. It implements
// usecase.ConfigReader.
type Protocol struct {
	params     domain.Params
	coins      []string
	allowed    map[string]bool
	thresholds map[string]decimal.Decimal
	maxLTVs    map[string]decimal.Decimal
	vaults     map[string]domain.VaultConfig
	principals map[string]bool
}

// NewProtocol validates file and builds the reader.
func NewProtocol(file *ProtocolFile) (*Protocol, error) {
	params := domain.DefaultParams()
	if file.Params.MaxCloseFactor != "" {
		d, err := parseDecimal("max_close_factor", file.Params.MaxCloseFactor)
		if err != nil {
			return nil, err
		}
		params.MaxCloseFactor = d
	}
	if file.Params.LiquidationBonus != "" {
		d, err := parseDecimal("liquidation_bonus", file.Params.LiquidationBonus)
		if err != nil {
			return nil, err
		}
		params.LiquidationBonus = d
	}
	if file.Params.MaxUnlockingPositions != 0 {
		params.MaxUnlockingPositions = file.Params.MaxUnlockingPositions
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	p := &Protocol{
		params:     params,
		allowed:    make(map[string]bool, len(file.Coins)),
		thresholds: make(map[string]decimal.Decimal, len(file.Coins)),
		maxLTVs:    make(map[string]decimal.Decimal, len(file.Coins)),
		vaults:     make(map[string]domain.VaultConfig, len(file.Vaults)),
		principals: make(map[string]bool, len(file.ProtocolPrincipals)),
	}

	for _, c := range file.Coins {
		if c.Denom == "" {
			return nil, errorsmod.Wrap(domain.ErrInvalidParams, "coin without denom")
		}
		if p.allowed[c.Denom] {
			return nil, errorsmod.Wrapf(domain.ErrDuplicateDenom, "coin %s", c.Denom)
		}
		threshold := decimal.Zero
		if c.LiquidationThreshold != "" {
			d, err := parseDecimal(c.Denom+" liquidation_threshold", c.LiquidationThreshold)
			if err != nil {
				return nil, err
			}
			threshold = d
		}
		// An omitted max_ltv borrows up to the liquidation threshold.
		maxLTV := threshold
		if c.MaxLTV != "" {
			d, err := parseDecimal(c.Denom+" max_ltv", c.MaxLTV)
			if err != nil {
				return nil, err
			}
			if d.GreaterThan(threshold) {
				return nil, errorsmod.Wrapf(domain.ErrInvalidParams,
					"coin %s max_ltv %s above liquidation_threshold %s", c.Denom, d, threshold)
			}
			maxLTV = d
		}
		p.allowed[c.Denom] = true
		p.thresholds[c.Denom] = threshold
		p.maxLTVs[c.Denom] = maxLTV
		p.coins = append(p.coins, c.Denom)
	}
	sort.Strings(p.coins)

	for _, v := range file.Vaults {
		cfg, err := vaultConfig(v)
		if err != nil {
			return nil, err
		}
		if _, dup := p.vaults[cfg.Address]; dup {
			return nil, errorsmod.Wrapf(domain.ErrInvalidParams, "duplicate vault %s", cfg.Address)
		}
		p.vaults[cfg.Address] = cfg
	}

	for _, principal := range file.ProtocolPrincipals {
		p.principals[principal] = true
	}
	if file.Pool.Address != "" {
		p.principals[file.Pool.Address] = true
	}
	for _, v := range file.Vaults {
		p.principals[v.Address] = true
	}
	return p, nil
}

func vaultConfig(v VaultFile) (domain.VaultConfig, error) {
	if v.Address == "" {
		return domain.VaultConfig{}, errorsmod.Wrap(domain.ErrInvalidParams, "vault without address")
	}
	if _, err := v.LockupDuration(); err != nil {
		return domain.VaultConfig{}, err
	}
	cap, err := v.DepositCap.Coin()
	if err != nil {
		return domain.VaultConfig{}, err
	}
	if cap.Denom == "" || cap.Amount.IsNegative() {
		return domain.VaultConfig{}, errorsmod.Wrapf(domain.ErrInvalidParams, "vault %s deposit cap %s", v.Address, cap)
	}
	maxLTV, err := parseDecimal(v.Address+" max_ltv", v.MaxLTV)
	if err != nil {
		return domain.VaultConfig{}, err
	}
	threshold, err := parseDecimal(v.Address+" liquidation_threshold", v.LiquidationThreshold)
	if err != nil {
		return domain.VaultConfig{}, err
	}
	if maxLTV.GreaterThan(threshold) {
		return domain.VaultConfig{}, errorsmod.Wrapf(domain.ErrInvalidParams,
			"vault %s max_ltv %s above liquidation_threshold %s", v.Address, maxLTV, threshold)
	}
	return domain.VaultConfig{
		Address:              v.Address,
		Whitelisted:          v.Whitelisted,
		DepositCap:           cap,
		MaxLTV:               maxLTV,
		LiquidationThreshold: threshold,
	}, nil
}

func parseDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		return decimal.Zero, errorsmod.Wrapf(domain.ErrInvalidParams, "%s %q", name, value)
	}
	return d, nil
}

func (p *Protocol) Params(ctx context.Context) (domain.Params, error) {
	return p.params, nil
}

func (p *Protocol) IsCoinAllowed(ctx context.Context, denom string) (bool, error) {
	return p.allowed[denom], nil
}

func (p *Protocol) AllowedCoins(ctx context.Context) ([]string, error) {
	return append([]string(nil), p.coins...), nil
}

func (p *Protocol) VaultConfig(ctx context.Context, address string) (domain.VaultConfig, error) {
	cfg, ok := p.vaults[address]
	if !ok {
		return domain.VaultConfig{}, errorsmod.Wrapf(domain.ErrVaultNotFound, "vault %s", address)
	}
	return cfg, nil
}

func (p *Protocol) VaultConfigs(ctx context.Context) ([]domain.VaultConfig, error) {
	out := make([]domain.VaultConfig, 0, len(p.vaults))
	for _, cfg := range p.vaults {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func (p *Protocol) IsProtocolPrincipal(ctx context.Context, principal string) (bool, error) {
	return p.principals[principal], nil
}

// LiquidationThreshold is the share of a coin's value that counts as collateral.
func (p *Protocol) LiquidationThreshold(denom string) decimal.Decimal {
	return p.thresholds[denom]
}

// MaxLTV is the share of a coin's value a batch may borrow against.
func (p *Protocol) MaxLTV(denom string) decimal.Decimal {
	return p.maxLTVs[denom]
}
