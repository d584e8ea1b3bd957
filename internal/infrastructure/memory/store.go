// Package memory implementa los puertos de persistencia en memoria (DB_DRIVER=memory).
// Pensado para demo y tests: los datos se pierden al reiniciar.
package memory

import (
	"sync"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// Store mantiene el estado compartido de todos los repositorios en memoria.
// Las escrituras se serializan con writeMu; las lecturas solo toman mu en modo lectura.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	st      *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

type state struct {
	products     map[string]*entity.Product
	productOrder []string
	txs          []*entity.StockTransaction
	seq          int64
	users        map[string]*entity.User
	userOrder    []string
	audit        []*entity.AuditLog

	// base es el estado publicado cuando este es un estado en preparación (tx).
	// products y users guardan entonces solo las filas tocadas por la tx.
	base *state
}

func newState() *state {
	return &state{
		products: make(map[string]*entity.Product),
		users:    make(map[string]*entity.User),
	}
}

// stage prepara una tx sobre el estado publicado. Los slices se comparten: son append-only y
// los lectores del estado publicado nunca leen más allá de su propia longitud.
func (s *state) stage() *state {
	return &state{
		products:     make(map[string]*entity.Product),
		productOrder: s.productOrder,
		txs:          s.txs,
		seq:          s.seq,
		users:        make(map[string]*entity.User),
		userOrder:    s.userOrder,
		audit:        s.audit,
		base:         s,
	}
}

// publish vuelca en base las filas tocadas. Coste proporcional a lo que cambió la tx.
func (s *state) publish() {
	b := s.base
	for id, p := range s.products {
		b.products[id] = p
	}
	for id, u := range s.users {
		b.users[id] = u
	}
	b.productOrder = s.productOrder
	b.txs = s.txs
	b.seq = s.seq
	b.userOrder = s.userOrder
	b.audit = s.audit
}

func (s *state) product(id string) (*entity.Product, bool) {
	if p, ok := s.products[id]; ok {
		return p, true
	}
	if s.base != nil {
		p, ok := s.base.products[id]
		return p, ok
	}
	return nil, false
}

// productForWrite devuelve la fila modificable; en una tx la copia primero desde base.
func (s *state) productForWrite(id string) (*entity.Product, bool) {
	if p, ok := s.products[id]; ok {
		return p, true
	}
	if s.base == nil {
		return nil, false
	}
	p, ok := s.base.products[id]
	if !ok {
		return nil, false
	}
	cp := *p
	s.products[id] = &cp
	return &cp, true
}

func (s *state) putProduct(p *entity.Product) {
	s.products[p.ID] = p
	s.productOrder = append(s.productOrder, p.ID)
}

func (s *state) user(id string) (*entity.User, bool) {
	if u, ok := s.users[id]; ok {
		return u, true
	}
	if s.base != nil {
		u, ok := s.base.users[id]
		return u, ok
	}
	return nil, false
}

func (s *state) userForWrite(id string) (*entity.User, bool) {
	if u, ok := s.users[id]; ok {
		return u, true
	}
	if s.base == nil {
		return nil, false
	}
	u, ok := s.base.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	s.users[id] = &cp
	return &cp, true
}

func (s *state) putUser(u *entity.User) {
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
}

// view da acceso al estado: directo dentro de una tx (staged) o con bloqueo fuera de ella.
type view struct {
	db     *Store
	staged *state
}

func (v view) read(fn func(st *state)) {
	if v.staged != nil {
		fn(v.staged)
		return
	}
	v.db.mu.RLock()
	defer v.db.mu.RUnlock()
	fn(v.db.st)
}

func (v view) write(fn func(st *state) error) error {
	if v.staged != nil {
		return fn(v.staged)
	}
	v.db.writeMu.Lock()
	defer v.db.writeMu.Unlock()
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	return fn(v.db.st)
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{view{db: s}} }

// Transactions repositorio de transacciones de stock fuera de transacción.
func (s *Store) Transactions() *StockTransactionRepo { return &StockTransactionRepo{view{db: s}} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{view{db: s}} }

// AuditLogs repositorio de auditoría fuera de transacción.
func (s *Store) AuditLogs() *AuditLogRepo { return &AuditLogRepo{view{db: s}} }

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
