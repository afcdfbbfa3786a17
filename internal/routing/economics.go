package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FeeTier maps a trailing-monthly-volume floor to a fee rate. Tiers are
// policy data injected at startup, not routing logic.
type FeeTier struct {
	MinMonthlyVolumeUSD decimal.Decimal
	FeeBps              int64
}

// EconomicsPolicy is the fee schedule plus the referrer's share of fees
type EconomicsPolicy struct {
	Tiers            []FeeTier // ascending by volume floor
	ReferralShareBps int64
}

// DefaultEconomicsPolicy is the launch fee schedule
func DefaultEconomicsPolicy() EconomicsPolicy {
	return EconomicsPolicy{
		Tiers: []FeeTier{
			{MinMonthlyVolumeUSD: decimal.Zero, FeeBps: 100},
			{MinMonthlyVolumeUSD: decimal.NewFromInt(10_000), FeeBps: 80},
			{MinMonthlyVolumeUSD: decimal.NewFromInt(100_000), FeeBps: 50},
			{MinMonthlyVolumeUSD: decimal.NewFromInt(1_000_000), FeeBps: 30},
		},
		ReferralShareBps: 2000,
	}
}

// volumeTTL keeps a little over two calendar months of volume entries
const volumeTTL = 62 * 24 * time.Hour

// Ledger reads and records receiver volume and referral facts in the
// injected store. Missing entries read as zero volume / not referred.
type Ledger struct {
	store store.Store
	clock store.Clock
}

// NewLedger creates a ledger over the given store
func NewLedger(s store.Store, clock store.Clock) *Ledger {
	if clock == nil {
		clock = store.SystemClock{}
	}
	return &Ledger{store: s, clock: clock}
}

func volumeKey(receiver string, t time.Time) string {
	return fmt.Sprintf("volume:%s:%s", receiver, t.UTC().Format("2006-01"))
}

func referralKey(receiver string) string {
	return "referral:" + receiver
}

// MonthlyVolume returns the receiver's trailing calendar-month volume in
// USD. Store failures degrade to zero volume, which lands the receiver in
// the most conservative fee tier.
func (l *Ledger) MonthlyVolume(ctx context.Context, receiver string) decimal.Decimal {
	raw, ok, err := l.store.Get(ctx, volumeKey(receiver, l.clock.Now()))
	if err != nil {
		logger.Warn("volume read failed", zap.String("receiver", receiver), zap.Error(err))
		return decimal.Zero
	}
	if !ok {
		return decimal.Zero
	}
	volume, err := decimal.NewFromString(string(raw))
	if err != nil {
		logger.Warn("corrupt volume entry", zap.String("receiver", receiver), zap.Error(err))
		return decimal.Zero
	}
	return volume
}

// RecordPayment adds a settled payment to the receiver's current-month
// volume
func (l *Ledger) RecordPayment(ctx context.Context, receiver string, amountUSD decimal.Decimal) error {
	key := volumeKey(receiver, l.clock.Now())
	total := l.MonthlyVolume(ctx, receiver).Add(amountUSD)
	return l.store.Set(ctx, key, []byte(total.String()), volumeTTL)
}

// ReferrerOf returns the receiver's referrer, if any
func (l *Ledger) ReferrerOf(ctx context.Context, receiver string) (string, bool) {
	raw, ok, err := l.store.Get(ctx, referralKey(receiver))
	if err != nil || !ok {
		return "", false
	}
	return string(raw), true
}

// SetReferrer records who referred the receiver. Referrals do not expire.
func (l *Ledger) SetReferrer(ctx context.Context, receiver, referrer string) error {
	return l.store.Set(ctx, referralKey(receiver), []byte(referrer), 0)
}

// ComputeEconomics derives the fee tier from trailing monthly volume and
// the referral split. Display data only: it never influences route order.
func ComputeEconomics(ctx context.Context, policy EconomicsPolicy, ledger *Ledger, receiver string, amountUSD decimal.Decimal) Economics {
	volume := ledger.MonthlyVolume(ctx, receiver)

	feeBps := int64(0)
	for _, tier := range policy.Tiers {
		if volume.GreaterThanOrEqual(tier.MinMonthlyVolumeUSD) {
			feeBps = tier.FeeBps
		}
	}

	feeUSD := amountUSD.Mul(decimal.New(feeBps, -4))

	econ := Economics{
		MonthlyVolumeUSD: volume,
		FeeBps:           feeBps,
		FeeUSD:           feeUSD,
	}

	if _, referred := ledger.ReferrerOf(ctx, receiver); referred {
		econ.Referred = true
		econ.ReferrerShareUSD = feeUSD.Mul(decimal.New(policy.ReferralShareBps, -4))
	}

	return econ
}
