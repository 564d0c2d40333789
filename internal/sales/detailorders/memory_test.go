package detailorders

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

type lineKey struct {
	orderID   int64
	productID int64
}

type memoryState struct {
	orders   map[int64]bool
	products map[int64]ProductStock
	lines    map[lineKey]DetailOrder
	nextID   int64
}

func (s memoryState) clone() memoryState {
	c := memoryState{
		orders:   make(map[int64]bool, len(s.orders)),
		products: make(map[int64]ProductStock, len(s.products)),
		lines:    make(map[lineKey]DetailOrder, len(s.lines)),
		nextID:   s.nextID,
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = v
	}
	return c
}

// memoryRepo serialises transactions with one mutex and restores the previous
// state when fn fails.
type memoryRepo struct {
	mu    sync.Mutex
	state memoryState
	// failOn makes the named tx method fail after earlier writes went through.
	failOn string
}

type memoryTx struct {
	repo *memoryRepo
}

var errInjected = &shared.StoreError{Op: "memory", Err: context.DeadlineExceeded}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{state: memoryState{
		orders:   make(map[int64]bool),
		products: make(map[int64]ProductStock),
		lines:    make(map[lineKey]DetailOrder),
	}}
}

func (r *memoryRepo) addOrder(id int64) {
	r.state.orders[id] = true
}

func (r *memoryRepo) addProduct(id int64, price string, availability int) {
	r.state.products[id] = ProductStock{ID: id, Price: decimal.RequireFromString(price), Availability: availability}
}

func (r *memoryRepo) availability(id int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.products[id].Availability
}

func (r *memoryRepo) line(orderID, productID int64) (DetailOrder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.state.lines[lineKey{orderID, productID}]
	return l, ok
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.state.clone()
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.state = snapshot
		return err
	}
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]DetailOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DetailOrder, 0, len(r.state.lines))
	for _, l := range r.state.lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*DetailOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.state.lines {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (tx *memoryTx) fail(method string) error {
	if tx.repo.failOn == method {
		return errInjected
	}
	return nil
}

func (tx *memoryTx) OrderExists(ctx context.Context, orderID int64) (bool, error) {
	return tx.repo.state.orders[orderID], nil
}

func (tx *memoryTx) GetProductForUpdate(ctx context.Context, productID int64) (ProductStock, error) {
	p, ok := tx.repo.state.products[productID]
	if !ok {
		return ProductStock{}, ErrProductNotFound
	}
	return p, nil
}

func (tx *memoryTx) GetLineForUpdate(ctx context.Context, orderID, productID int64) (DetailOrder, error) {
	l, ok := tx.repo.state.lines[lineKey{orderID, productID}]
	if !ok {
		return DetailOrder{}, ErrNotFound
	}
	return l, nil
}

func (tx *memoryTx) InsertLine(ctx context.Context, line DetailOrder) (int64, error) {
	if err := tx.fail("InsertLine"); err != nil {
		return 0, err
	}
	key := lineKey{line.OrderID, line.ProductID}
	if _, exists := tx.repo.state.lines[key]; exists {
		return 0, ErrDuplicateLine
	}
	tx.repo.state.nextID++
	line.ID = tx.repo.state.nextID
	tx.repo.state.lines[key] = line
	return line.ID, nil
}

func (tx *memoryTx) UpdateLine(ctx context.Context, line DetailOrder) error {
	if err := tx.fail("UpdateLine"); err != nil {
		return err
	}
	key := lineKey{line.OrderID, line.ProductID}
	if _, ok := tx.repo.state.lines[key]; !ok {
		return ErrNotFound
	}
	tx.repo.state.lines[key] = line
	return nil
}

func (tx *memoryTx) DeleteLine(ctx context.Context, id int64) error {
	if err := tx.fail("DeleteLine"); err != nil {
		return err
	}
	for k, l := range tx.repo.state.lines {
		if l.ID == id {
			delete(tx.repo.state.lines, k)
			return nil
		}
	}
	return ErrNotFound
}

func (tx *memoryTx) SetAvailability(ctx context.Context, productID int64, availability int) error {
	if err := tx.fail("SetAvailability"); err != nil {
		return err
	}
	p, ok := tx.repo.state.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	p.Availability = availability
	tx.repo.state.products[productID] = p
	return nil
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{counts: make(map[string]int)}
}

func (r *countingRecorder) ObserveStockOperation(op, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[op+"/"+result]++
}

func (r *countingRecorder) get(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}

type auditSpy struct {
	mu   sync.Mutex
	logs []shared.AuditLog
}

func (a *auditSpy) Record(ctx context.Context, log shared.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}
