// Package access contiene la puerta de autorización: cada caso de uso que muta estado
// la consulta de forma explícita con el principal del llamador y la capacidad requerida.
package access

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Capability acción protegida.
type Capability string

const (
	CapRead            Capability = "read"             // cualquier usuario autenticado
	CapManageArticles  Capability = "manage_articles"  // ADMIN
	CapManagePurchases Capability = "manage_purchases" // ADMIN
	CapSell            Capability = "sell"             // ADMIN o vendedor
	CapManageUsers     Capability = "manage_users"     // ADMIN
)

// Principal identidad autenticada del llamador.
type Principal struct {
	UserID   string
	Username string
	Role     string
	Seller   bool
}

// System principal interno para procesos sin petición (seed, CLI).
var System = &Principal{UserID: "", Username: "system", Role: entity.RoleAdmin}

// IsAdmin indica si el principal tiene rol ADMIN.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == entity.RoleAdmin
}

// Can evalúa la capacidad sin construir error.
func (p *Principal) Can(c Capability) bool {
	if p == nil || p.Role == "" {
		return false
	}
	switch c {
	case CapRead:
		return true
	case CapSell:
		return p.IsAdmin() || p.Seller
	case CapManageArticles, CapManagePurchases, CapManageUsers:
		return p.IsAdmin()
	}
	return false
}

// Authorize devuelve ErrUnauthorized sin principal y ErrForbidden si no tiene la capacidad.
func Authorize(p *Principal, c Capability) error {
	if p == nil || p.Role == "" {
		return domain.ErrUnauthorized
	}
	if !p.Can(c) {
		return fmt.Errorf("%w: %s no puede %s", domain.ErrForbidden, p.Username, c)
	}
	return nil
}
