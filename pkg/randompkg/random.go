// Package randompkg provides functionality for generating random application common items.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/acmebank/ledger/internal/domain"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Int32Between generates a random int32 between min and max inclusive.
func Int32Between(min, max int32) int32 {
	return min + int32(Intn(int(max-min+1)))
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// Name generates a random person name.
func Name() string {
	return String(6)
}

// AmountBetween generates a random whole money amount between min and max.
func AmountBetween(min, max int64) decimal.Decimal {
	return decimal.NewFromInt(min + Intn(int(max-min)))
}

// CardTier picks a random card tier.
func CardTier() domain.CardTier {
	tiers := []domain.CardTier{domain.TierStandard, domain.TierTitanium, domain.TierPlatinum}
	return tiers[Intn(len(tiers))]
}

// AccountType picks a random account type.
func AccountType() domain.AccountType {
	types := []domain.AccountType{domain.Checking, domain.Savings}
	return types[Intn(len(types))]
}
