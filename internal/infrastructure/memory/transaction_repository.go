package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository ventas y compras en memoria; las líneas viven dentro de su cabecera.
type TransactionRepository struct {
	s *Store
	u *unit
}

func (r *TransactionRepository) write(ctx context.Context, fn func(u *unit) error) error {
	if r.u != nil {
		return fn(r.u)
	}
	return r.s.autocommit(ctx, fn)
}

// Create guarda cabecera y líneas.
func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	return r.write(ctx, func(u *unit) error {
		if err := u.lock(txKey(t.ID)); err != nil {
			return err
		}
		if _, ok := u.transaction(t.ID); ok {
			return domain.ErrConflict
		}
		u.txCreate[t.ID] = *cloneTransaction(*t)
		delete(u.txDelete, t.ID)
		return nil
	})
}

func (r *TransactionRepository) read(id string) (entity.Transaction, bool) {
	if r.u != nil {
		return r.u.transaction(id)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.transactions[id]
	return t, ok
}

// GetByID devuelve la transacción del tipo pedido o nil.
func (r *TransactionRepository) GetByID(_ context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error) {
	t, ok := r.read(id)
	if !ok || t.Kind != kind {
		return nil, nil
	}
	return cloneTransaction(t), nil
}

// GetForUpdate bloquea la cabecera hasta el fin de la unidad.
func (r *TransactionRepository) GetForUpdate(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error) {
	if r.u != nil {
		if err := r.u.lock(txKey(id)); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, kind, id)
}

// Delete elimina la cabecera y sus líneas.
func (r *TransactionRepository) Delete(ctx context.Context, kind entity.TransactionKind, id string) error {
	return r.write(ctx, func(u *unit) error {
		if err := u.lock(txKey(id)); err != nil {
			return err
		}
		t, ok := u.transaction(id)
		if !ok || t.Kind != kind {
			return domain.NotFound(kind.Entity(), id)
		}
		delete(u.txCreate, id)
		u.txDelete[id] = struct{}{}
		return nil
	})
}

// List filtra por tipo, usuario y rango de fechas (inclusivo), ordenado por fecha.
func (r *TransactionRepository) List(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	r.s.mu.RLock()
	merged := make(map[string]entity.Transaction, len(r.s.transactions))
	for id, t := range r.s.transactions {
		merged[id] = t
	}
	r.s.mu.RUnlock()
	if r.u != nil {
		for id := range r.u.txDelete {
			delete(merged, id)
		}
		for id, t := range r.u.txCreate {
			merged[id] = t
		}
	}

	var out []*entity.Transaction
	for _, t := range merged {
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.From != nil && t.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && t.Date.After(*f.To) {
			continue
		}
		out = append(out, cloneTransaction(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}
