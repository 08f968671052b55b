package quotation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udyog/backend/internal/domain/shared"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newQuotation(t *testing.T, discount, packaging string) *Quotation {
	t.Helper()
	q, err := NewQuotation(uuid.New(), uuid.New(), time.Now(), dec(discount), dec(packaging))
	require.NoError(t, err)
	return q
}

func TestItemPricing(t *testing.T) {
	// 2 x 100 at 18% tax with a 10% document discount on the tax only.
	item, err := NewItem(uuid.New(), uuid.New(), dec("2"), dec("100"), dec("18"), dec("10"))
	require.NoError(t, err)

	assert.True(t, item.SubTotal.Equal(dec("200")), "sub total %s", item.SubTotal)
	assert.True(t, item.TaxAmount.Equal(dec("36")), "tax %s", item.TaxAmount)
	assert.True(t, item.DiscountedTax.Equal(dec("32.4")), "discounted tax %s", item.DiscountedTax)
	assert.True(t, item.FinalPrice.Equal(dec("232.4")), "final price %s", item.FinalPrice)
	assert.True(t, item.TaxDiscountAmount().Equal(dec("3.6")))
}

func TestItemPricingDiscountNeverTouchesSubTotal(t *testing.T) {
	// Even at 100% discount the base price is untouched; only tax vanishes.
	item, err := NewItem(uuid.New(), uuid.New(), dec("5"), dec("40"), dec("18"), dec("100"))
	require.NoError(t, err)

	assert.True(t, item.SubTotal.Equal(dec("200")))
	assert.True(t, item.DiscountedTax.IsZero())
	assert.True(t, item.FinalPrice.Equal(dec("200")))
}

func TestItemValidation(t *testing.T) {
	cases := []struct {
		name                           string
		quantity, price, tax, discount string
	}{
		{"zero quantity", "0", "10", "18", "0"},
		{"negative quantity", "-1", "10", "18", "0"},
		{"negative price", "1", "-10", "18", "0"},
		{"tax above 100", "1", "10", "101", "0"},
		{"negative tax", "1", "10", "-1", "0"},
		{"discount above 100", "1", "10", "18", "101"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewItem(uuid.New(), uuid.New(), dec(tc.quantity), dec(tc.price), dec(tc.tax), dec(tc.discount))
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
		})
	}
}

func TestRecalculateTotals(t *testing.T) {
	q := newQuotation(t, "10", "10")
	require.NoError(t, q.AddItem(uuid.New(), nil, dec("2"), dec("100"), dec("18"), nil, decimal.Zero))
	require.NoError(t, q.AddItem(uuid.New(), nil, dec("1"), dec("50"), dec("12"), nil, decimal.Zero))
	q.Recalculate()

	// Line 1: 200 + 36*0.9 = 232.40; line 2: 50 + 6*0.9 = 55.40.
	assert.True(t, q.TotalSubTotal.Equal(dec("250")), "sub total %s", q.TotalSubTotal)
	assert.True(t, q.TotalTax.Equal(dec("42")), "tax %s", q.TotalTax)
	assert.True(t, q.TotalDiscount.Equal(dec("4.2")), "discount %s", q.TotalDiscount)
	// 232.40 + 55.40 + 10 packaging = 297.80, rounded half up.
	assert.True(t, q.GrandTotal.Equal(dec("298")), "grand total %s", q.GrandTotal)
}

func TestRecalculateEmptyQuotation(t *testing.T) {
	q := newQuotation(t, "0", "25")
	q.Recalculate()
	assert.True(t, q.TotalSubTotal.IsZero())
	assert.True(t, q.GrandTotal.Equal(dec("25")))
}

func TestRecalculatePackagingChargeAddedOnce(t *testing.T) {
	q := newQuotation(t, "0", "7")
	for i := 0; i < 3; i++ {
		require.NoError(t, q.AddItem(uuid.New(), nil, dec("1"), dec("10"), dec("0"), nil, decimal.Zero))
	}
	q.Recalculate()
	assert.True(t, q.GrandTotal.Equal(dec("37")), "grand total %s", q.GrandTotal)
}

func TestStatusTransitionTable(t *testing.T) {
	all := []Status{StatusQuote, StatusAccepted, StatusDeclined, StatusProcessing, StatusPackaging, StatusCompleted, StatusInvoiced}
	allowed := map[Status][]Status{
		StatusQuote:      {StatusAccepted, StatusDeclined},
		StatusAccepted:   {StatusProcessing, StatusDeclined},
		StatusDeclined:   {StatusAccepted},
		StatusProcessing: {StatusPackaging},
		StatusPackaging:  {StatusCompleted},
		StatusCompleted:  {StatusInvoiced},
		StatusInvoiced:   {},
	}

	for from, targets := range allowed {
		ok := make(map[Status]bool, len(targets))
		for _, target := range targets {
			ok[target] = true
		}
		for _, to := range all {
			assert.Equal(t, ok[to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionTo(t *testing.T) {
	q := newQuotation(t, "0", "0")

	require.NoError(t, q.TransitionTo(StatusAccepted))
	assert.Equal(t, StatusAccepted, q.Status)

	err := q.TransitionTo(StatusPackaging)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	assert.Equal(t, StatusAccepted, q.Status)

	err = q.TransitionTo(Status("X"))
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestDeclinedCanBeReopened(t *testing.T) {
	q := newQuotation(t, "0", "0")
	require.NoError(t, q.TransitionTo(StatusDeclined))
	require.NoError(t, q.TransitionTo(StatusAccepted))
	assert.Equal(t, StatusAccepted, q.Status)
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Quote", StatusQuote.Label())
	assert.Equal(t, "Packaging", StatusPackaging.Label())
	assert.Equal(t, "Invoiced", StatusInvoiced.Label())
}
