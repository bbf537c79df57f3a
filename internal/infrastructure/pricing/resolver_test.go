package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logistics-platform/shipment-engine/internal/domain"
	"github.com/logistics-platform/shipment-engine/pkg/logging"
)

type stubOverrideStore struct {
	override *domain.PricingOverride
	err      error
	calls    int
}

func (s *stubOverrideStore) GetActiveOverride(_ context.Context, _ string) (*domain.PricingOverride, error) {
	s.calls++
	return s.override, s.err
}

type stubConfigStore struct {
	raw   []byte
	err   error
	calls int
}

func (s *stubConfigStore) GetConfig(_ context.Context, _ string) ([]byte, error) {
	s.calls++
	return s.raw, s.err
}

func f64(v float64) *float64 { return &v }

func testResolver(overrides *stubOverrideStore, configs *stubConfigStore) *Resolver {
	return NewResolver(overrides, configs, logging.New(logging.DefaultConfig("test")), nil)
}

func TestResolveOverrideWins(t *testing.T) {
	overrides := &stubOverrideStore{override: &domain.PricingOverride{
		BrandID:        "brand-1",
		Active:         true,
		BaseRatePerBox: f64(80),
		MarkupPercent:  f64(20),
	}}
	configs := &stubConfigStore{raw: []byte(`{"forward":{"baseRatePerBox":60}}`)}

	got := testResolver(overrides, configs).Resolve(context.Background(), "brand-1", domain.ShipmentForward)

	assert.Equal(t, domain.PricingSourceBrandOverride, got.Source)
	assert.Equal(t, 80.0, got.BaseRatePerBox)
	assert.Equal(t, 20.0, got.MarkupPercent)
	// Unset override fields take the flat override defaults.
	assert.Equal(t, 50.0, got.MinCharge)
	assert.Equal(t, 25.0, got.WeightRatePerKg)
	assert.Equal(t, 0, configs.calls, "override tier must short-circuit the config lookup")
}

func TestResolveInactiveOverrideFallsThrough(t *testing.T) {
	overrides := &stubOverrideStore{override: &domain.PricingOverride{BrandID: "brand-1", Active: false, BaseRatePerBox: f64(80)}}
	configs := &stubConfigStore{raw: []byte(`{"forward":{"baseRatePerBox":60,"minCharge":90}}`)}

	got := testResolver(overrides, configs).Resolve(context.Background(), "brand-1", domain.ShipmentForward)

	assert.Equal(t, domain.PricingSourceGlobalConfig, got.Source)
	assert.Equal(t, 60.0, got.BaseRatePerBox)
	assert.Equal(t, 90.0, got.MinCharge)
}

func TestResolveGlobalConfigPerDirection(t *testing.T) {
	configs := &stubConfigStore{raw: []byte(`{
		"forward": {"baseRatePerBox": 55, "minCharge": 85, "markupPercent": 12},
		"reverse": {"baseRatePerBox": 40},
		"weightRatePerKg": 30
	}`)}

	resolver := testResolver(&stubOverrideStore{}, configs)

	forward := resolver.Resolve(context.Background(), "", domain.ShipmentForward)
	assert.Equal(t, domain.PricingSourceGlobalConfig, forward.Source)
	assert.Equal(t, 55.0, forward.BaseRatePerBox)
	assert.Equal(t, 85.0, forward.MinCharge)
	assert.Equal(t, 12.0, forward.MarkupPercent)
	assert.Equal(t, 30.0, forward.WeightRatePerKg)

	reverse := resolver.Resolve(context.Background(), "", domain.ShipmentReverse)
	assert.Equal(t, 40.0, reverse.BaseRatePerBox)
	// Unset reverse fields keep the hardcoded reverse defaults.
	assert.Equal(t, 50.0, reverse.MinCharge)
	assert.Equal(t, 10.0, reverse.MarkupPercent)
	assert.Equal(t, 30.0, reverse.WeightRatePerKg)
}

func TestResolveDefaults(t *testing.T) {
	t.Run("Empty stores", func(t *testing.T) {
		got := testResolver(&stubOverrideStore{}, &stubConfigStore{}).Resolve(context.Background(), "brand-1", domain.ShipmentForward)
		assert.Equal(t, domain.DefaultPricing(domain.ShipmentForward), got)
		assert.Equal(t, domain.PricingSourceDefault, got.Source)
	})

	t.Run("Reverse type", func(t *testing.T) {
		got := testResolver(&stubOverrideStore{}, &stubConfigStore{}).Resolve(context.Background(), "", domain.ShipmentReverse)
		assert.Equal(t, 45.0, got.BaseRatePerBox)
		assert.Equal(t, 50.0, got.MinCharge)
		assert.Equal(t, 10.0, got.MarkupPercent)
	})
}

func TestResolveNeverFails(t *testing.T) {
	t.Run("Store errors degrade to defaults", func(t *testing.T) {
		overrides := &stubOverrideStore{err: errors.New("mongo down")}
		configs := &stubConfigStore{err: errors.New("mongo down")}

		got := testResolver(overrides, configs).Resolve(context.Background(), "brand-1", domain.ShipmentForward)
		assert.Equal(t, domain.PricingSourceDefault, got.Source)
		assert.Equal(t, 50.0, got.BaseRatePerBox)
	})

	t.Run("Malformed config degrades to defaults", func(t *testing.T) {
		configs := &stubConfigStore{raw: []byte(`{not json`)}

		got := testResolver(&stubOverrideStore{}, configs).Resolve(context.Background(), "", domain.ShipmentForward)
		assert.Equal(t, domain.PricingSourceDefault, got.Source)
	})
}

func TestResolveEmptyBrandSkipsOverrideTier(t *testing.T) {
	overrides := &stubOverrideStore{}
	configs := &stubConfigStore{}

	testResolver(overrides, configs).Resolve(context.Background(), "", domain.ShipmentForward)
	assert.Equal(t, 0, overrides.calls)
	assert.Equal(t, 1, configs.calls)
}
