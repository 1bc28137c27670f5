package hedge

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/simglobe/simglobe/internal/domain"
)

// MaxAmount caps a single hedge.
var MaxAmount = decimal.NewFromInt(1_000_000)

var (
	walletPattern   = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
	marketIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
)

// IsWallet reports whether s looks like a base58 Solana address.
func IsWallet(s string) bool { return walletPattern.MatchString(s) }

// IsMarketID reports whether s is a well-formed market identifier.
func IsMarketID(s string) bool { return marketIDPattern.MatchString(s) }

// ValidateRequest checks the inputs of a new hedge. wallet may be empty.
func ValidateRequest(marketID string, amount decimal.Decimal, wallet string) error {
	switch {
	case marketID == "":
		return domain.NewValidationError("marketId", "is required")
	case !IsMarketID(marketID):
		return domain.NewValidationError("marketId", "must be 1-64 letters, digits, '-' or '_'")
	case !amount.IsPositive():
		return domain.NewValidationError("amount", "must be a positive number")
	case amount.GreaterThan(MaxAmount):
		return domain.NewValidationError("amount", "exceeds maximum limit")
	case wallet != "" && !IsWallet(wallet):
		return domain.NewValidationError("walletAddress", "invalid Solana wallet address")
	}
	return nil
}
