package integration

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/udyog/backend/internal/application/ledger"
	apppartner "github.com/udyog/backend/internal/application/partner"
	appquotation "github.com/udyog/backend/internal/application/quotation"
	apptrade "github.com/udyog/backend/internal/application/trade"
)

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestHealthAndAuthGuard(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(http.MethodGet, "/products", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestTradeFlow walks a purchase, a sale, a payment and their reversals
// through the API and checks the derived stock and balance after each step.
func TestTradeFlow(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register("Shree Plastics", "admin@shree.example")

	supplier := srv.createCustomer(token, "Gokul Polymers")
	buyer := srv.createCustomer(token, "Mahavir Traders")
	product := srv.createProduct(token, "LDPE Roll 40mic")

	// Purchase 10 kg: stock goes up and the business owes the supplier.
	env := srv.mustDo(http.MethodPost, "/purchases", token, apptrade.CreatePurchaseRequest{
		CustomerID: supplier.ID,
		Items: []apptrade.DocumentItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(50)},
		},
	}, http.StatusCreated)
	purchase := decodeData[apptrade.PurchaseResponse](t, env)
	requireDecimal(t, "500", purchase.TotalAmount)
	requireDecimal(t, "10", srv.getProduct(token, product.ID.String()).RemainingQuantity)
	requireDecimal(t, "-500", srv.getCustomer(token, supplier.ID.String()).RemainingPaymentAmount)

	// Sell 6 kg: stock down, the buyer owes the sale amount.
	env = srv.mustDo(http.MethodPost, "/sales", token, apptrade.CreateSaleRequest{
		CustomerID: buyer.ID,
		Items: []apptrade.DocumentItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(6), UnitPrice: decimal.NewFromInt(80)},
		},
	}, http.StatusCreated)
	sale := decodeData[apptrade.SaleResponse](t, env)
	requireDecimal(t, "480", sale.TotalAmount)
	requireDecimal(t, "4", srv.getProduct(token, product.ID.String()).RemainingQuantity)
	requireDecimal(t, "480", srv.getCustomer(token, buyer.ID.String()).RemainingPaymentAmount)

	// Receiving 200 settles part of the outstanding amount.
	env = srv.mustDo(http.MethodPost, "/payments", token, apppartner.CreatePaymentRequest{
		CustomerID:  buyer.ID,
		Amount:      decimal.NewFromInt(200),
		IsReceived:  true,
		PaymentType: "CASH",
	}, http.StatusCreated)
	payment := decodeData[apppartner.PaymentResponse](t, env)
	requireDecimal(t, "280", srv.getCustomer(token, buyer.ID.String()).RemainingPaymentAmount)

	// The ledger shows every movement.
	env = srv.mustDo(http.MethodGet, "/products/"+product.ID.String()+"/ledger", token, nil, http.StatusOK)
	require.NotNil(t, env.Meta)
	assert.EqualValues(t, 2, env.Meta.Total)
	entries := decodeData[[]appledger.EntryResponse](t, env)
	require.Len(t, entries, 2)

	env = srv.mustDo(http.MethodGet, "/customers/"+buyer.ID.String()+"/ledger", token, nil, http.StatusOK)
	require.NotNil(t, env.Meta)
	assert.EqualValues(t, 2, env.Meta.Total)

	// Deleting the payment puts the outstanding amount back.
	srv.mustDo(http.MethodDelete, "/payments/"+payment.ID.String(), token, nil, http.StatusNoContent)
	requireDecimal(t, "480", srv.getCustomer(token, buyer.ID.String()).RemainingPaymentAmount)

	// Rewriting the sale to 4 kg re-posts its effects from scratch.
	env = srv.mustDo(http.MethodPut, "/sales/"+sale.ID.String(), token, apptrade.UpdateSaleRequest{
		CustomerID: buyer.ID,
		Items: []apptrade.DocumentItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(80)},
		},
	}, http.StatusOK)
	updated := decodeData[apptrade.SaleResponse](t, env)
	requireDecimal(t, "320", updated.TotalAmount)
	requireDecimal(t, "6", srv.getProduct(token, product.ID.String()).RemainingQuantity)
	requireDecimal(t, "320", srv.getCustomer(token, buyer.ID.String()).RemainingPaymentAmount)

	// Deleting both documents restores the initial state exactly.
	srv.mustDo(http.MethodDelete, "/sales/"+sale.ID.String(), token, nil, http.StatusNoContent)
	srv.mustDo(http.MethodDelete, "/purchases/"+purchase.ID.String(), token, nil, http.StatusNoContent)
	requireDecimal(t, "0", srv.getProduct(token, product.ID.String()).RemainingQuantity)
	requireDecimal(t, "0", srv.getCustomer(token, buyer.ID.String()).RemainingPaymentAmount)
	requireDecimal(t, "0", srv.getCustomer(token, supplier.ID.String()).RemainingPaymentAmount)
}

func TestTenantIsolation(t *testing.T) {
	srv := newTestServer(t)
	tokenA := srv.register("Tenant A", "a@example.com")
	tokenB := srv.register("Tenant B", "b@example.com")

	product := srv.createProduct(tokenA, "Masterbatch White")

	rec := srv.do(http.MethodGet, "/products/"+product.ID.String(), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env := srv.mustDo(http.MethodGet, "/products", tokenB, nil, http.StatusOK)
	require.NotNil(t, env.Meta)
	assert.EqualValues(t, 0, env.Meta.Total)

	env = srv.mustDo(http.MethodGet, "/products", tokenA, nil, http.StatusOK)
	require.NotNil(t, env.Meta)
	assert.EqualValues(t, 1, env.Meta.Total)
}

func TestQuotationLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register("Quoting Co", "quotes@example.com")

	customer := srv.createCustomer(token, "Patel Industries")
	product := srv.createProduct(token, "HDPE Bag 12x16")

	env := srv.mustDo(http.MethodPost, "/quotations", token, appquotation.CreateQuotationRequest{
		CustomerID:         customer.ID,
		DiscountPercentage: decimal.NewFromInt(10),
		PackagingCharge:    decimal.NewFromInt(10),
		Items: []appquotation.ItemRequest{
			{
				ProductID:     product.ID,
				Quantity:      decimal.NewFromInt(2),
				UnitPrice:     decimal.NewFromInt(100),
				TaxPercentage: decimal.NewFromInt(18),
			},
		},
	}, http.StatusCreated)
	quote := decodeData[appquotation.QuotationResponse](t, env)

	assert.Equal(t, "Q", quote.Status)
	requireDecimal(t, "200", quote.TotalSubTotal)
	requireDecimal(t, "36", quote.TotalTax)
	requireDecimal(t, "3.6", quote.TotalDiscount)
	requireDecimal(t, "242", quote.GrandTotal) // 232.40 + 10 packaging, rounded
	require.Len(t, quote.Items, 1)
	requireDecimal(t, "232.4", quote.Items[0].FinalPrice)

	// Quotations never move stock.
	requireDecimal(t, "0", srv.getProduct(token, product.ID.String()).RemainingQuantity)

	id := quote.ID.String()
	env = srv.mustDo(http.MethodPatch, "/quotations/"+id+"/status", token,
		appquotation.UpdateStatusRequest{Status: "A"}, http.StatusOK)
	assert.Equal(t, "A", decodeData[appquotation.QuotationResponse](t, env).Status)

	// Approved cannot jump straight to payment complete.
	env = srv.mustDo(http.MethodPatch, "/quotations/"+id+"/status", token,
		appquotation.UpdateStatusRequest{Status: "PC"}, http.StatusBadRequest)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register("Logout Co", "logout@example.com")

	rec := srv.do(http.MethodGet, "/products", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	srv.mustDo(http.MethodPost, "/auth/logout", token, nil, http.StatusNoContent)

	rec = srv.do(http.MethodGet, "/products", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
