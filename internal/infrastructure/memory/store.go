// Package memory implementa los puertos de repositorio en memoria con la misma semántica
// transaccional que PostgreSQL: bloqueos por artículo hasta el commit, escrituras en un
// área de staging y commit atómico. Se usa en desarrollo (STORE_DRIVER=memory) y en tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// errLockTimeout el bloqueo de una clave no se obtuvo a tiempo; TxRunner lo reintenta.
var errLockTimeout = errors.New("memory: tiempo de espera de bloqueo agotado")

// Options parámetros del almacén.
type Options struct {
	LockTimeout time.Duration
	MaxRetries  int
	Logger      *logger.Logger
}

// Store estado confirmado más la tabla de bloqueos.
type Store struct {
	mu           sync.RWMutex
	articles     map[string]entity.Article
	barcodes     map[string]string // barcode -> article id
	transactions map[string]entity.Transaction
	users        map[string]entity.User

	locks       *lockTable
	lockTimeout time.Duration
	maxRetries  int
	log         *logger.Logger
}

// NewStore crea un almacén vacío.
func NewStore(opts Options) *Store {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 2 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Store{
		articles:     map[string]entity.Article{},
		barcodes:     map[string]string{},
		transactions: map[string]entity.Transaction{},
		users:        map[string]entity.User{},
		locks:        newLockTable(),
		lockTimeout:  opts.LockTimeout,
		maxRetries:   opts.MaxRetries,
		log:          opts.Logger,
	}
}

// Articles repositorio de artículos en modo autocommit.
func (s *Store) Articles() *ArticleRepository { return &ArticleRepository{s: s} }

// Transactions repositorio de ventas/compras en modo autocommit.
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// TxRunner runner transaccional sobre este almacén.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una unidad de trabajo en memoria.
type TxRunner struct {
	s *Store
}

// Run abre una unidad de trabajo, ejecuta fn con repos atados a ella y confirma o descarta.
// Un bloqueo no obtenido a tiempo se reintenta hasta MaxRetries veces y luego es ErrConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(
	articleRepo repository.ArticleRepository,
	transactionRepo repository.TransactionRepository,
) error) error {
	var err error
	for attempt := 0; attempt <= r.s.maxRetries; attempt++ {
		err = r.runOnce(ctx, fn)
		if !errors.Is(err, errLockTimeout) {
			return err
		}
		r.s.log.Warn().Int("attempt", attempt+1).Msg("conflicto de bloqueo en memoria, reintentando")
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	articleRepo repository.ArticleRepository,
	transactionRepo repository.TransactionRepository,
) error) error {
	u := r.s.begin(ctx)
	defer u.rollback()

	if err := fn(&ArticleRepository{s: r.s, u: u}, &TransactionRepository{s: r.s, u: u}); err != nil {
		return err
	}
	return u.commit()
}

// autocommit ejecuta fn en una unidad propia (escrituras fuera de TxRunner).
func (s *Store) autocommit(ctx context.Context, fn func(u *unit) error) error {
	u := s.begin(ctx)
	defer u.rollback()
	if err := fn(u); err != nil {
		if errors.Is(err, errLockTimeout) {
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return err
	}
	return u.commit()
}

// unit unidad de trabajo: claves bloqueadas y escrituras pendientes.
type unit struct {
	s        *Store
	ctx      context.Context
	held     []string
	heldSet  map[string]struct{}
	articles map[string]entity.Article // altas y modificaciones
	created  map[string]struct{}       // ids de artículos nuevos
	txCreate map[string]entity.Transaction
	txDelete map[string]struct{}
	done     bool
}

func (s *Store) begin(ctx context.Context) *unit {
	return &unit{
		s:        s,
		ctx:      ctx,
		heldSet:  map[string]struct{}{},
		articles: map[string]entity.Article{},
		created:  map[string]struct{}{},
		txCreate: map[string]entity.Transaction{},
		txDelete: map[string]struct{}{},
	}
}

// lock adquiere la clave si la unidad aún no la tiene (reentrante dentro de la unidad).
func (u *unit) lock(key string) error {
	if _, ok := u.heldSet[key]; ok {
		return nil
	}
	if err := u.s.locks.acquire(u.ctx, key, u.s.lockTimeout); err != nil {
		return err
	}
	u.heldSet[key] = struct{}{}
	u.held = append(u.held, key)
	return nil
}

func (u *unit) release() {
	for i := len(u.held) - 1; i >= 0; i-- {
		u.s.locks.release(u.held[i])
	}
	u.held = nil
	u.heldSet = map[string]struct{}{}
}

func (u *unit) rollback() {
	if u.done {
		return
	}
	u.done = true
	u.release()
}

// commit aplica las escrituras pendientes bajo el mutex global; la unicidad de barcode
// se vuelve a comprobar aquí como lo haría el índice único.
func (u *unit) commit() error {
	if u.done {
		return nil
	}
	u.s.mu.Lock()
	for id := range u.created {
		a := u.articles[id]
		if owner, ok := u.s.barcodes[a.Barcode]; ok && owner != id {
			u.s.mu.Unlock()
			return &domain.DuplicateBarcodeError{Barcode: a.Barcode}
		}
	}
	for id, a := range u.articles {
		u.s.articles[id] = a
		u.s.barcodes[a.Barcode] = id
	}
	for id := range u.txDelete {
		delete(u.s.transactions, id)
	}
	for id, t := range u.txCreate {
		u.s.transactions[id] = t
	}
	u.s.mu.Unlock()

	u.done = true
	u.release()
	return nil
}

// article lectura con overlay de la unidad.
func (u *unit) article(id string) (entity.Article, bool) {
	if a, ok := u.articles[id]; ok {
		return a, true
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	a, ok := u.s.articles[id]
	return a, ok
}

// transaction lectura con overlay de la unidad.
func (u *unit) transaction(id string) (entity.Transaction, bool) {
	if _, ok := u.txDelete[id]; ok {
		return entity.Transaction{}, false
	}
	if t, ok := u.txCreate[id]; ok {
		return t, true
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	t, ok := u.s.transactions[id]
	return t, ok
}

// lockTable un canal de capacidad 1 por clave hace de mutex con espera cancelable.
type lockTable struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{slots: map[string]chan struct{}{}}
}

func (t *lockTable) slot(key string) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		t.slots[key] = ch
	}
	return ch
}

func (t *lockTable) acquire(ctx context.Context, key string, timeout time.Duration) error {
	ch := t.slot(key)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w: %s", errLockTimeout, key)
	}
}

func (t *lockTable) release(key string) {
	ch := t.slot(key)
	select {
	case <-ch:
	default:
	}
}

func articleKey(id string) string { return "article:" + id }
func txKey(id string) string      { return "tx:" + id }

func cloneArticle(a entity.Article) *entity.Article {
	c := a
	return &c
}

func cloneTransaction(t entity.Transaction) *entity.Transaction {
	c := t
	c.Lines = append([]entity.Line(nil), t.Lines...)
	return &c
}
