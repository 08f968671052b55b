package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appproduction "github.com/udyog/backend/internal/application/production"
	apptrade "github.com/udyog/backend/internal/application/trade"
)

func TestProductionBatchFlow(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register("Batch Works", "batch@example.com")

	env := srv.mustDo(http.MethodPost, "/machines", token, appproduction.MachineRequest{
		Name: "Extruder 1",
	}, http.StatusCreated)
	machine := decodeData[appproduction.MachineResponse](t, env)

	raw := srv.createProduct(token, "LDPE Granules")
	finished := srv.createProduct(token, "LDPE Film Roll")
	supplier := srv.createCustomer(token, "Granule Supplier")

	// Stock 100 kg of raw material through a purchase.
	srv.mustDo(http.MethodPost, "/purchases", token, apptrade.CreatePurchaseRequest{
		CustomerID: supplier.ID,
		Items: []apptrade.DocumentItemRequest{
			{ProductID: raw.ID, Quantity: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(90)},
		},
	}, http.StatusCreated)

	batchDate := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	createReq := appproduction.CreateBatchRequest{
		MachineID: machine.ID,
		BatchDate: batchDate,
		Shift:     "DAY",
		Mixers: []appproduction.MixerItemRequest{
			{ProductID: raw.ID, Quantity: decimal.NewFromInt(30)},
		},
		Productions: []appproduction.ProductionItemRequest{
			{ProductID: finished.ID, Quantity: decimal.NewFromInt(25), NumberOfRoll: 5},
		},
	}

	env = srv.mustDo(http.MethodPost, "/batches", token, createReq, http.StatusCreated)
	batch := decodeData[appproduction.BatchResponse](t, env)
	assert.Equal(t, "20260412001", batch.Name)
	requireDecimal(t, "70", srv.getProduct(token, raw.ID.String()).RemainingQuantity)
	requireDecimal(t, "25", srv.getProduct(token, finished.ID.String()).RemainingQuantity)

	// A second batch on the same date gets the next sequence number.
	env = srv.mustDo(http.MethodPost, "/batches", token, createReq, http.StatusCreated)
	second := decodeData[appproduction.BatchResponse](t, env)
	assert.Equal(t, "20260412002", second.Name)
	requireDecimal(t, "40", srv.getProduct(token, raw.ID.String()).RemainingQuantity)
	requireDecimal(t, "50", srv.getProduct(token, finished.ID.String()).RemainingQuantity)

	// Re-submitting a batch unchanged reconciles to the same stock levels.
	env = srv.mustDo(http.MethodPut, "/batches/"+batch.ID.String(), token, appproduction.UpdateBatchRequest{
		MachineID:   machine.ID,
		BatchDate:   batchDate,
		Shift:       "DAY",
		Mixers:      createReq.Mixers,
		Productions: createReq.Productions,
	}, http.StatusOK)
	updated := decodeData[appproduction.BatchResponse](t, env)
	assert.Equal(t, "20260412001", updated.Name, "name survives a same-date update")
	requireDecimal(t, "40", srv.getProduct(token, raw.ID.String()).RemainingQuantity)
	requireDecimal(t, "50", srv.getProduct(token, finished.ID.String()).RemainingQuantity)

	// Changing the yield reconciles the difference.
	env = srv.mustDo(http.MethodPut, "/batches/"+batch.ID.String(), token, appproduction.UpdateBatchRequest{
		MachineID: machine.ID,
		BatchDate: batchDate,
		Shift:     "NIGHT",
		Mixers: []appproduction.MixerItemRequest{
			{ProductID: raw.ID, Quantity: decimal.NewFromInt(20)},
		},
		Productions: []appproduction.ProductionItemRequest{
			{ProductID: finished.ID, Quantity: decimal.NewFromInt(18), NumberOfRoll: 4},
		},
	}, http.StatusOK)
	require.NotNil(t, env.Data)
	requireDecimal(t, "50", srv.getProduct(token, raw.ID.String()).RemainingQuantity)
	requireDecimal(t, "43", srv.getProduct(token, finished.ID.String()).RemainingQuantity)

	// Deleting a batch reverts its stock effect entirely.
	srv.mustDo(http.MethodDelete, "/batches/"+batch.ID.String(), token, nil, http.StatusNoContent)
	requireDecimal(t, "70", srv.getProduct(token, raw.ID.String()).RemainingQuantity)
	requireDecimal(t, "25", srv.getProduct(token, finished.ID.String()).RemainingQuantity)

	// An unknown product in a mixer line fails the whole batch.
	rec := srv.do(http.MethodPost, "/batches", token, appproduction.CreateBatchRequest{
		MachineID: machine.ID,
		BatchDate: batchDate,
		Shift:     "DAY",
		Mixers: []appproduction.MixerItemRequest{
			{ProductID: supplier.ID, Quantity: decimal.NewFromInt(1)},
		},
		Productions: []appproduction.ProductionItemRequest{
			{ProductID: finished.ID, Quantity: decimal.NewFromInt(1)},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	requireDecimal(t, "70", srv.getProduct(token, raw.ID.String()).RemainingQuantity)
}
