// Package testutil provee repositorios en memoria y un TxRunner con rollback
// por snapshot para probar los casos de uso sin una base de datos.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Store guarda el estado completo del inventario en memoria.
type Store struct {
	Masters    map[string]*entity.MasterItem
	Units      map[string]*entity.InventoryUnit // clave: barcode
	Batches    map[string]*entity.ReceivingBatch
	BatchItems map[string][]*entity.ReceivingBatchItem // clave: batch id
	Entries    []*entity.LedgerEntry
	Wallets    map[string]*entity.WalletBalance // clave: engineer|item
	Requests   map[string]*entity.StockRequest
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		Masters:    map[string]*entity.MasterItem{},
		Units:      map[string]*entity.InventoryUnit{},
		Batches:    map[string]*entity.ReceivingBatch{},
		BatchItems: map[string][]*entity.ReceivingBatchItem{},
		Wallets:    map[string]*entity.WalletBalance{},
		Requests:   map[string]*entity.StockRequest{},
	}
}

func walletKey(engineerID, itemName string) string {
	return engineerID + "|" + itemName
}

// clone copia el estado completo para poder restaurarlo en un rollback.
func (s *Store) clone() *Store {
	c := NewStore()
	for k, v := range s.Masters {
		m := *v
		c.Masters[k] = &m
	}
	for k, v := range s.Units {
		u := *v
		c.Units[k] = &u
	}
	for k, v := range s.Batches {
		b := *v
		c.Batches[k] = &b
	}
	for k, items := range s.BatchItems {
		cp := make([]*entity.ReceivingBatchItem, 0, len(items))
		for _, item := range items {
			i := *item
			cp = append(cp, &i)
		}
		c.BatchItems[k] = cp
	}
	c.Entries = make([]*entity.LedgerEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		cp := *e
		c.Entries = append(c.Entries, &cp)
	}
	for k, v := range s.Wallets {
		w := *v
		c.Wallets[k] = &w
	}
	for k, v := range s.Requests {
		r := *v
		r.Items = append([]entity.StockRequestItem(nil), v.Items...)
		c.Requests[k] = &r
	}
	return c
}

// restore reemplaza el estado por el del snapshot.
func (s *Store) restore(snap *Store) {
	*s = *snap
}

// Wallet devuelve el saldo actual de engineer|item (cero si no existe).
func (s *Store) Wallet(engineerID, itemName string) decimal.Decimal {
	if w, ok := s.Wallets[walletKey(engineerID, itemName)]; ok {
		return w.Balance
	}
	return decimal.Zero
}

// ── MasterItemRepository ──────────────────────────────────────────────────────

type MasterRepo struct{ s *Store }

var _ repository.MasterItemRepository = (*MasterRepo)(nil)

func (r *MasterRepo) Create(item *entity.MasterItem) error {
	for _, m := range r.s.Masters {
		if m.CompanyID == item.CompanyID && m.NameKey == item.NameKey && m.PartNo == item.PartNo {
			return domain.ErrDuplicate
		}
	}
	r.s.Masters[item.ID] = item
	return nil
}

func (r *MasterRepo) GetByID(id string) (*entity.MasterItem, error) {
	return r.s.Masters[id], nil
}

func (r *MasterRepo) GetByNaturalKey(companyID, nameKey, partNo string) (*entity.MasterItem, error) {
	for _, m := range r.s.Masters {
		if m.CompanyID == companyID && m.NameKey == nameKey && m.PartNo == partNo {
			return m, nil
		}
	}
	return nil, nil
}

func (r *MasterRepo) AdjustStock(id string, delta decimal.Decimal) error {
	m, ok := r.s.Masters[id]
	if !ok {
		return domain.ErrNotFound
	}
	next := m.TotalInStock.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientStock
	}
	m.TotalInStock = next
	return nil
}

func (r *MasterRepo) UpdatePurchaseInfo(id string, price decimal.Decimal, manufacturer string) error {
	m, ok := r.s.Masters[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.LastPurchasePrice = price
	if manufacturer != "" {
		m.Manufacturer = manufacturer
	}
	return nil
}

func (r *MasterRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.MasterItem, error) {
	var out []*entity.MasterItem
	for _, m := range r.s.Masters {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── InventoryUnitRepository ───────────────────────────────────────────────────

type UnitRepo struct{ s *Store }

var _ repository.InventoryUnitRepository = (*UnitRepo)(nil)

func (r *UnitRepo) RegisterUnits(units []*entity.InventoryUnit) error {
	for _, u := range units {
		if _, exists := r.s.Units[u.Barcode]; exists {
			return fmt.Errorf("barcode %s: %w", u.Barcode, domain.ErrDuplicate)
		}
		r.s.Units[u.Barcode] = u
	}
	return nil
}

func (r *UnitRepo) GetByBarcode(barcode string) (*entity.InventoryUnit, error) {
	return r.s.Units[barcode], nil
}

func (r *UnitRepo) IssueUnits(barcodes []string, holderID string, at time.Time) (int64, error) {
	var affected int64
	for _, bc := range barcodes {
		u, ok := r.s.Units[bc]
		if !ok || u.Status != entity.UnitStatusInStock {
			continue
		}
		u.Status = entity.UnitStatusFulfilled
		holder := holderID
		issuedAt := at
		u.CurrentHolderID = &holder
		u.IssuedAt = &issuedAt
		affected++
	}
	return affected, nil
}

func (r *UnitRepo) ReturnUnit(barcode string) (int64, error) {
	u, ok := r.s.Units[barcode]
	if !ok || u.Status != entity.UnitStatusFulfilled {
		return 0, nil
	}
	u.Status = entity.UnitStatusInStock
	u.CurrentHolderID = nil
	u.IssuedAt = nil
	return 1, nil
}

func (r *UnitRepo) ListByMaster(masterID string) ([]*entity.InventoryUnit, error) {
	var out []*entity.InventoryUnit
	for _, u := range r.s.Units {
		if u.MasterID == masterID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UnitRepo) SelectAvailable(masterID string, limit int) ([]*entity.InventoryUnit, error) {
	var out []*entity.InventoryUnit
	for _, u := range r.s.Units {
		if u.MasterID == masterID && u.Status == entity.UnitStatusInStock {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UnitRepo) CountByMasterAndStatus(masterID, status string) (int64, error) {
	var n int64
	for _, u := range r.s.Units {
		if u.MasterID == masterID && u.Status == status {
			n++
		}
	}
	return n, nil
}

// ── ReceivingBatchRepository ──────────────────────────────────────────────────

type BatchRepo struct{ s *Store }

var _ repository.ReceivingBatchRepository = (*BatchRepo)(nil)

func (r *BatchRepo) CreateBatch(batch *entity.ReceivingBatch) error {
	r.s.Batches[batch.ID] = batch
	return nil
}

func (r *BatchRepo) CreateItem(item *entity.ReceivingBatchItem) error {
	r.s.BatchItems[item.BatchID] = append(r.s.BatchItems[item.BatchID], item)
	return nil
}

func (r *BatchRepo) UpdateTotals(batchID string, totalItems, totalValue decimal.Decimal) error {
	b, ok := r.s.Batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	b.TotalItems = totalItems
	b.TotalValue = totalValue
	return nil
}

func (r *BatchRepo) GetByID(id string) (*entity.ReceivingBatch, error) {
	return r.s.Batches[id], nil
}

func (r *BatchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ReceivingBatch, error) {
	var out []*entity.ReceivingBatch
	for _, b := range r.s.Batches {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BatchRepo) ListItems(batchID string) ([]repository.BatchItemDetail, error) {
	var out []repository.BatchItemDetail
	for _, item := range r.s.BatchItems[batchID] {
		d := repository.BatchItemDetail{Item: *item}
		if m, ok := r.s.Masters[item.MasterID]; ok {
			d.ProductName = m.ProductName
			d.PartNo = m.PartNo
			d.Serialized = m.Serialized
		}
		out = append(out, d)
	}
	return out, nil
}

// ── LedgerRepository ──────────────────────────────────────────────────────────

type LedgerRepo struct{ s *Store }

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	r.s.Entries = append(r.s.Entries, entry)
	return nil
}

func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	for _, e := range r.s.Entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *LedgerRepo) ListByEngineer(engineerID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.Entries {
		if e.EngineerID == nil || *e.EngineerID != engineerID {
			continue
		}
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *LedgerRepo) ListByBatch(batchID string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.Entries {
		if e.BatchID != nil && *e.BatchID == batchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *LedgerRepo) SumByEngineerAndItem(engineerID, itemName string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.s.Entries {
		if e.EngineerID != nil && *e.EngineerID == engineerID && e.ItemName == itemName {
			sum = sum.Add(e.Quantity)
		}
	}
	return sum, nil
}

func (r *LedgerRepo) ConsumptionReport(companyID string, from, to *time.Time) ([]repository.ConsumptionRow, error) {
	byItem := map[string]*repository.ConsumptionRow{}
	var order []string
	for _, e := range r.s.Entries {
		if e.CompanyID != companyID || e.Type != entity.TxTypeUsage {
			continue
		}
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		row, ok := byItem[e.ItemName]
		if !ok {
			row = &repository.ConsumptionRow{ItemName: e.ItemName, ItemCategory: e.ItemCategory, Unit: e.Unit}
			byItem[e.ItemName] = row
			order = append(order, e.ItemName)
		}
		row.TotalUsed = row.TotalUsed.Add(e.Quantity.Neg())
		row.Movements++
	}
	out := make([]repository.ConsumptionRow, 0, len(order))
	for _, name := range order {
		out = append(out, *byItem[name])
	}
	return out, nil
}

// ── WalletRepository ──────────────────────────────────────────────────────────

type WalletRepo struct{ s *Store }

var _ repository.WalletRepository = (*WalletRepo)(nil)

func (r *WalletRepo) Get(engineerID, itemName string) (*entity.WalletBalance, error) {
	if w, ok := r.s.Wallets[walletKey(engineerID, itemName)]; ok {
		return w, nil
	}
	return &entity.WalletBalance{EngineerID: engineerID, ItemName: itemName, Balance: decimal.Zero}, nil
}

func (r *WalletRepo) GetForUpdate(engineerID, itemName string) (*entity.WalletBalance, error) {
	return r.Get(engineerID, itemName)
}

func (r *WalletRepo) ApplyDelta(ref *entity.WalletBalance, delta decimal.Decimal) error {
	key := walletKey(ref.EngineerID, ref.ItemName)
	w, ok := r.s.Wallets[key]
	if !ok {
		w = &entity.WalletBalance{EngineerID: ref.EngineerID, ItemName: ref.ItemName, Balance: decimal.Zero}
	}
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientStock
	}
	w.Balance = next
	if ref.Unit != "" {
		w.Unit = ref.Unit
	}
	if ref.ItemCategory != "" {
		w.ItemCategory = ref.ItemCategory
	}
	if ref.MasterID != nil {
		w.MasterID = ref.MasterID
	}
	w.UpdatedAt = ref.UpdatedAt
	r.s.Wallets[key] = w
	return nil
}

func (r *WalletRepo) ListByEngineer(engineerID string) ([]*entity.WalletBalance, error) {
	var out []*entity.WalletBalance
	for _, w := range r.s.Wallets {
		if w.EngineerID == engineerID && !w.Balance.IsZero() {
			out = append(out, w)
		}
	}
	return out, nil
}

// ── StockRequestRepository ────────────────────────────────────────────────────

type RequestRepo struct{ s *Store }

var _ repository.StockRequestRepository = (*RequestRepo)(nil)

func (r *RequestRepo) Create(request *entity.StockRequest) error {
	r.s.Requests[request.ID] = request
	return nil
}

func (r *RequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	return r.s.Requests[id], nil
}

func (r *RequestRepo) GetByIDForUpdate(id string) (*entity.StockRequest, error) {
	return r.s.Requests[id], nil
}

func (r *RequestRepo) Update(request *entity.StockRequest) error {
	if _, ok := r.s.Requests[request.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Requests[request.ID] = request
	return nil
}

func (r *RequestRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for _, req := range r.s.Requests {
		if req.CompanyID != companyID {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *RequestRepo) ListByEngineer(engineerID string, limit, offset int) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for _, req := range r.s.Requests {
		if req.EngineerID == engineerID {
			out = append(out, req)
		}
	}
	return out, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner imita la semántica transaccional del runner real: toma un snapshot
// del store y lo restaura si el callback falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) run(fn func() error) error {
	snap := r.s.clone()
	if err := fn(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *TxRunner) RunReceiving(_ context.Context, fn func(
	masterRepo repository.MasterItemRepository,
	unitRepo repository.InventoryUnitRepository,
	batchRepo repository.ReceivingBatchRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.run(func() error {
		return fn(&MasterRepo{r.s}, &UnitRepo{r.s}, &BatchRepo{r.s}, &LedgerRepo{r.s})
	})
}

func (r *TxRunner) RunIssuance(_ context.Context, fn func(
	masterRepo repository.MasterItemRepository,
	unitRepo repository.InventoryUnitRepository,
	ledgerRepo repository.LedgerRepository,
	walletRepo repository.WalletRepository,
) error) error {
	return r.run(func() error {
		return fn(&MasterRepo{r.s}, &UnitRepo{r.s}, &LedgerRepo{r.s}, &WalletRepo{r.s})
	})
}

func (r *TxRunner) RunLedger(_ context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	walletRepo repository.WalletRepository,
) error) error {
	return r.run(func() error {
		return fn(&LedgerRepo{r.s}, &WalletRepo{r.s})
	})
}

func (r *TxRunner) RunFulfillment(_ context.Context, fn func(
	requestRepo repository.StockRequestRepository,
	masterRepo repository.MasterItemRepository,
	unitRepo repository.InventoryUnitRepository,
	ledgerRepo repository.LedgerRepository,
	walletRepo repository.WalletRepository,
) error) error {
	return r.run(func() error {
		return fn(&RequestRepo{r.s}, &MasterRepo{r.s}, &UnitRepo{r.s}, &LedgerRepo{r.s}, &WalletRepo{r.s})
	})
}

// Repos accesores directos para lecturas en tests (fuera de transacción).

func (s *Store) MasterRepo() *MasterRepo   { return &MasterRepo{s} }
func (s *Store) UnitRepo() *UnitRepo       { return &UnitRepo{s} }
func (s *Store) BatchRepo() *BatchRepo     { return &BatchRepo{s} }
func (s *Store) LedgerRepo() *LedgerRepo   { return &LedgerRepo{s} }
func (s *Store) WalletRepo() *WalletRepo   { return &WalletRepo{s} }
func (s *Store) RequestRepo() *RequestRepo { return &RequestRepo{s} }
