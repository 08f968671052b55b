package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/shared"
)

// memoryAccounts is an in-memory BalanceStore without row locking, for
// single-goroutine behavioral tests. Concurrency tests use rowLockAccounts,
// which models locks the way the database holds them.
type memoryAccounts struct {
	mu       sync.Mutex
	accounts map[accountKey]*ledger.Account
}

type accountKey struct {
	kind     ledger.AccountKind
	entityID uuid.UUID
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{accounts: make(map[accountKey]*ledger.Account)}
}

func (m *memoryAccounts) put(tenantID uuid.UUID, kind ledger.AccountKind, entityID uuid.UUID, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[accountKey{kind, entityID}] = &ledger.Account{
		Kind:     kind,
		EntityID: entityID,
		TenantID: tenantID,
		Balance:  balance,
	}
}

func (m *memoryAccounts) balance(kind ledger.AccountKind, entityID uuid.UUID) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[accountKey{kind, entityID}].Balance
}

func (m *memoryAccounts) LoadForUpdate(_ context.Context, kind ledger.AccountKind, entityID uuid.UUID) (*ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountKey{kind, entityID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	snapshot := *acc
	return &snapshot, nil
}

func (m *memoryAccounts) UpdateBalance(_ context.Context, kind ledger.AccountKind, entityID uuid.UUID, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountKey{kind, entityID}]
	if !ok {
		return shared.ErrNotFound
	}
	acc.Balance = balance
	return nil
}

// memoryEntries is an in-memory append-only EntryRepository
type memoryEntries struct {
	mu      sync.Mutex
	entries []ledger.Entry
}

func (m *memoryEntries) Create(_ context.Context, entry *ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryEntries) FindBySource(_ context.Context, tenantID uuid.UUID, source ledger.Source) ([]ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Entry
	for _, e := range m.entries {
		if e.TenantID == tenantID && e.SourceType == source.Type && e.SourceID == source.ID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryEntries) FindByEntity(_ context.Context, tenantID uuid.UUID, kind ledger.AccountKind, entityID uuid.UUID, _ ledger.EntryFilter) ([]ledger.Entry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Entry
	for _, e := range m.entries {
		if e.TenantID == tenantID && e.Kind == kind && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryEntries) NetBySource(_ context.Context, tenantID uuid.UUID, source ledger.Source) ([]ledger.AccountDelta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	nets := make(map[accountKey]decimal.Decimal)
	var order []accountKey
	for _, e := range m.entries {
		if e.TenantID != tenantID || e.SourceType != source.Type || e.SourceID != source.ID {
			continue
		}
		key := accountKey{e.Kind, e.EntityID}
		if _, seen := nets[key]; !seen {
			order = append(order, key)
		}
		nets[key] = nets[key].Add(e.Delta)
	}
	out := make([]ledger.AccountDelta, 0, len(order))
	for _, key := range order {
		out = append(out, ledger.AccountDelta{Kind: key.kind, EntityID: key.entityID, Net: nets[key]})
	}
	return out, nil
}

func (m *memoryEntries) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// rowLockAccounts models the balance table the way the database serves it:
// LoadForUpdate takes a per-row lock that is held until the owning
// transaction commits, and the lock is re-entrant within one transaction.
// Each test transaction gets its own store via begin().
type rowLockAccounts struct {
	mu       sync.Mutex
	accounts map[accountKey]*ledger.Account
	rows     map[accountKey]*sync.Mutex
}

func newRowLockAccounts() *rowLockAccounts {
	return &rowLockAccounts{
		accounts: make(map[accountKey]*ledger.Account),
		rows:     make(map[accountKey]*sync.Mutex),
	}
}

func (db *rowLockAccounts) put(tenantID uuid.UUID, kind ledger.AccountKind, entityID uuid.UUID, balance decimal.Decimal) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.accounts[accountKey{kind, entityID}] = &ledger.Account{
		Kind:     kind,
		EntityID: entityID,
		TenantID: tenantID,
		Balance:  balance,
	}
}

func (db *rowLockAccounts) balance(kind ledger.AccountKind, entityID uuid.UUID) decimal.Decimal {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.accounts[accountKey{kind, entityID}].Balance
}

func (db *rowLockAccounts) row(key accountKey) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	m, ok := db.rows[key]
	if !ok {
		m = &sync.Mutex{}
		db.rows[key] = m
	}
	return m
}

func (db *rowLockAccounts) begin() *rowLockTx {
	return &rowLockTx{db: db, held: make(map[accountKey]*sync.Mutex)}
}

type rowLockTx struct {
	db   *rowLockAccounts
	held map[accountKey]*sync.Mutex
}

func (tx *rowLockTx) LoadForUpdate(_ context.Context, kind ledger.AccountKind, entityID uuid.UUID) (*ledger.Account, error) {
	key := accountKey{kind, entityID}
	if _, ok := tx.held[key]; !ok {
		m := tx.db.row(key)
		m.Lock()
		tx.held[key] = m
	}
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	acc, ok := tx.db.accounts[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	snapshot := *acc
	return &snapshot, nil
}

func (tx *rowLockTx) UpdateBalance(_ context.Context, kind ledger.AccountKind, entityID uuid.UUID, balance decimal.Decimal) error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	acc, ok := tx.db.accounts[accountKey{kind, entityID}]
	if !ok {
		return shared.ErrNotFound
	}
	acc.Balance = balance
	return nil
}

func (tx *rowLockTx) commit() {
	for _, m := range tx.held {
		m.Unlock()
	}
	tx.held = make(map[accountKey]*sync.Mutex)
}

var _ ledger.BalanceStore = (*memoryAccounts)(nil)
var _ ledger.BalanceStore = (*rowLockTx)(nil)
var _ ledger.EntryRepository = (*memoryEntries)(nil)

func testAdjustment(entityID uuid.UUID, amount int64, intent ledger.Intent, source ledger.Source) Adjustment {
	return Adjustment{
		Kind:     ledger.AccountProductStock,
		EntityID: entityID,
		Amount:   decimal.NewFromInt(amount),
		Intent:   intent,
		Reason:   ledger.ReasonPurchase,
		Source:   source,
	}
}

func TestAdjustMovesBalanceAndRecordsEntry(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	store := newMemoryAccounts()
	store.put(tenantID, ledger.AccountProductStock, productID, decimal.NewFromInt(3))
	entries := &memoryEntries{}
	svc := NewLedger(store, entries, nil)

	source := ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()}
	entry, err := svc.Adjust(context.Background(), tenantID, testAdjustment(productID, 7, ledger.IntentIncrease, source))
	require.NoError(t, err)

	assert.True(t, entry.Delta.Equal(decimal.NewFromInt(7)))
	assert.True(t, entry.BalanceBefore.Equal(decimal.NewFromInt(3)))
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(10)))
	assert.True(t, store.balance(ledger.AccountProductStock, productID).Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 1, entries.count())
}

func TestAdjustTenantMismatchMutatesNothing(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	store := newMemoryAccounts()
	store.put(tenantID, ledger.AccountProductStock, productID, decimal.NewFromInt(5))
	entries := &memoryEntries{}
	svc := NewLedger(store, entries, nil)

	source := ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()}
	_, err := svc.Adjust(context.Background(), uuid.New(), testAdjustment(productID, 2, ledger.IntentIncrease, source))
	assert.ErrorIs(t, err, shared.ErrForbidden)

	assert.True(t, store.balance(ledger.AccountProductStock, productID).Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 0, entries.count())
}

func TestAdjustMissingAccount(t *testing.T) {
	svc := NewLedger(newMemoryAccounts(), &memoryEntries{}, nil)
	source := ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()}
	_, err := svc.Adjust(context.Background(), uuid.New(), testAdjustment(uuid.New(), 1, ledger.IntentIncrease, source))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAdjustRejectsInvalidInput(t *testing.T) {
	svc := NewLedger(newMemoryAccounts(), &memoryEntries{}, nil)
	source := ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()}

	cases := map[string]Adjustment{
		"negative amount": {
			Kind:     ledger.AccountProductStock,
			EntityID: uuid.New(),
			Amount:   decimal.NewFromInt(-1),
			Intent:   ledger.IntentIncrease,
			Reason:   ledger.ReasonPurchase,
			Source:   source,
		},
		"zero amount": {
			Kind:     ledger.AccountProductStock,
			EntityID: uuid.New(),
			Amount:   decimal.Zero,
			Intent:   ledger.IntentIncrease,
			Reason:   ledger.ReasonPurchase,
			Source:   source,
		},
		"bad kind": {
			Kind:     "SOMETHING",
			EntityID: uuid.New(),
			Amount:   decimal.NewFromInt(1),
			Intent:   ledger.IntentIncrease,
			Reason:   ledger.ReasonPurchase,
			Source:   source,
		},
		"bad reason": {
			Kind:     ledger.AccountProductStock,
			EntityID: uuid.New(),
			Amount:   decimal.NewFromInt(1),
			Intent:   ledger.IntentIncrease,
			Reason:   "WHIM",
			Source:   source,
		},
		"missing source id": {
			Kind:     ledger.AccountProductStock,
			EntityID: uuid.New(),
			Amount:   decimal.NewFromInt(1),
			Intent:   ledger.IntentIncrease,
			Reason:   ledger.ReasonPurchase,
			Source:   ledger.Source{Type: ledger.SourcePurchase},
		},
	}

	for name, adj := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Adjust(context.Background(), uuid.New(), adj)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
		})
	}
}

// Reversing a document restores every touched balance exactly, and reversing
// again changes nothing because the document's net is already zero.
func TestReverseBySourceRestoresAndIsIdempotent(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	customerID := uuid.New()
	store := newMemoryAccounts()
	store.put(tenantID, ledger.AccountProductStock, productID, decimal.NewFromInt(100))
	store.put(tenantID, ledger.AccountCustomerBalance, customerID, decimal.RequireFromString("12.50"))
	entries := &memoryEntries{}
	svc := NewLedger(store, entries, nil)
	ctx := context.Background()

	source := ledger.Source{Type: ledger.SourceSale, ID: uuid.NewString()}
	err := svc.ApplyAll(ctx, tenantID, []Adjustment{
		{
			Kind:     ledger.AccountProductStock,
			EntityID: productID,
			Amount:   decimal.NewFromInt(30),
			Intent:   ledger.IntentDecrease,
			Reason:   ledger.ReasonSale,
			Source:   source,
		},
		{
			Kind:     ledger.AccountCustomerBalance,
			EntityID: customerID,
			Amount:   decimal.RequireFromString("750.25"),
			Intent:   ledger.IntentIncrease,
			Reason:   ledger.ReasonSale,
			Source:   source,
		},
	})
	require.NoError(t, err)
	assert.True(t, store.balance(ledger.AccountProductStock, productID).Equal(decimal.NewFromInt(70)))
	assert.True(t, store.balance(ledger.AccountCustomerBalance, customerID).Equal(decimal.RequireFromString("762.75")))

	require.NoError(t, svc.ReverseBySource(ctx, tenantID, source, nil))
	assert.True(t, store.balance(ledger.AccountProductStock, productID).Equal(decimal.NewFromInt(100)))
	assert.True(t, store.balance(ledger.AccountCustomerBalance, customerID).Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 4, entries.count())

	// Second reversal sees zero nets and appends nothing.
	require.NoError(t, svc.ReverseBySource(ctx, tenantID, source, nil))
	assert.Equal(t, 4, entries.count())

	nets, err := entries.NetBySource(ctx, tenantID, source)
	require.NoError(t, err)
	for _, net := range nets {
		assert.True(t, net.Net.IsZero(), "net for %s should be zero, got %s", net.Kind, net.Net)
	}
}

func TestReverseBySourceIgnoresOtherTenants(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	store := newMemoryAccounts()
	store.put(tenantID, ledger.AccountProductStock, productID, decimal.NewFromInt(10))
	entries := &memoryEntries{}
	svc := NewLedger(store, entries, nil)
	ctx := context.Background()

	source := ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()}
	_, err := svc.Adjust(ctx, tenantID, testAdjustment(productID, 5, ledger.IntentIncrease, source))
	require.NoError(t, err)

	// Another tenant reversing the same source finds no entries to undo.
	require.NoError(t, svc.ReverseBySource(ctx, uuid.New(), source, nil))
	assert.True(t, store.balance(ledger.AccountProductStock, productID).Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 1, entries.count())
}

// Two concurrent sales of the same product must both land: 10 - 5 - 5 = 0.
func TestConcurrentSalesDrainStockExactly(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	db := newRowLockAccounts()
	db.put(tenantID, ledger.AccountProductStock, productID, decimal.NewFromInt(10))
	entries := &memoryEntries{}
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			tx := db.begin()
			defer tx.commit()
			source := ledger.Source{Type: ledger.SourceSale, ID: uuid.NewString()}
			adj := testAdjustment(productID, 5, ledger.IntentDecrease, source)
			adj.Reason = ledger.ReasonSale
			_, err := NewLedger(tx, entries, nil).Adjust(ctx, tenantID, adj)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, db.balance(ledger.AccountProductStock, productID).IsZero())
	assert.Equal(t, 2, entries.count())
}

// Concurrent transactions adjusting one account must serialize through the
// row lock: with 50 increments of 1, any lost update would leave the balance
// short.
func TestAdjustSerializesConcurrentWriters(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	db := newRowLockAccounts()
	db.put(tenantID, ledger.AccountProductStock, productID, decimal.Zero)
	entries := &memoryEntries{}
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			tx := db.begin()
			defer tx.commit()
			source := ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()}
			_, err := NewLedger(tx, entries, nil).Adjust(ctx, tenantID, testAdjustment(productID, 1, ledger.IntentIncrease, source))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, db.balance(ledger.AccountProductStock, productID).Equal(decimal.NewFromInt(writers)))
	assert.Equal(t, writers, entries.count())

	// The entry chain is consistent: every entry's after equals before plus delta.
	list, _, err := entries.FindByEntity(ctx, tenantID, ledger.AccountProductStock, productID, ledger.EntryFilter{})
	require.NoError(t, err)
	for _, e := range list {
		assert.True(t, e.BalanceBefore.Add(e.Delta).Equal(e.BalanceAfter))
	}
}

// A document rewrite adjusts the same account twice in one transaction
// (reversal, then reapply) while the row lock stays held until commit. A
// concurrent adjustment arriving between those two calls may only wait for
// the commit; it must never wedge the rewrite.
func TestDocumentRewriteSurvivesConcurrentAdjust(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	db := newRowLockAccounts()
	db.put(tenantID, ledger.AccountProductStock, productID, decimal.Zero)
	entries := &memoryEntries{}
	ctx := context.Background()

	docSource := ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()}
	otherSource := ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()}

	// The document's original effect, committed before the race starts.
	seed := db.begin()
	_, err := NewLedger(seed, entries, nil).Adjust(ctx, tenantID, testAdjustment(productID, 10, ledger.IntentIncrease, docSource))
	require.NoError(t, err)
	seed.commit()

	reversed := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tx := db.begin()
		defer tx.commit()
		svc := NewLedger(tx, entries, nil)
		assert.NoError(t, svc.ReverseBySource(ctx, tenantID, docSource, nil))
		close(reversed)
		// Let the concurrent writer queue up before the reapply.
		time.Sleep(50 * time.Millisecond)
		_, err := svc.Adjust(ctx, tenantID, testAdjustment(productID, 4, ledger.IntentIncrease, docSource))
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		<-reversed
		tx := db.begin()
		defer tx.commit()
		_, err := NewLedger(tx, entries, nil).Adjust(ctx, tenantID, testAdjustment(productID, 3, ledger.IntentIncrease, otherSource))
		assert.NoError(t, err)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("concurrent adjustment deadlocked against the document rewrite")
	}

	// 0 +10, rewritten to +4, plus the concurrent +3.
	assert.True(t, db.balance(ledger.AccountProductStock, productID).Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 4, entries.count())
}
