package inventory

import (
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Delta cambio neto de stock de un artículo (servicio de dominio).
// Negativo para salidas (venta), positivo para entradas (compra).
type Delta struct {
	ArticleID string
	Quantity  int
}

// DeltasFor traduce las líneas de una transacción a deltas según su tipo.
func DeltasFor(kind entity.TransactionKind, lines []entity.Line) []Delta {
	out := make([]Delta, 0, len(lines))
	for _, l := range lines {
		out = append(out, Delta{ArticleID: l.ArticleID, Quantity: kind.Sign() * l.Quantity})
	}
	return out
}

// ReversalFor deltas que deshacen una transacción persistida (usa las cantidades guardadas).
func ReversalFor(tx *entity.Transaction) []Delta {
	return Invert(DeltasFor(tx.Kind, tx.Lines))
}

// Invert cambia el signo de cada delta.
func Invert(deltas []Delta) []Delta {
	out := make([]Delta, len(deltas))
	for i, d := range deltas {
		out[i] = Delta{ArticleID: d.ArticleID, Quantity: -d.Quantity}
	}
	return out
}

// Net agrupa deltas del mismo artículo conservando el orden de primera aparición.
func Net(deltas []Delta) []Delta {
	idx := make(map[string]int, len(deltas))
	out := make([]Delta, 0, len(deltas))
	for _, d := range deltas {
		if i, ok := idx[d.ArticleID]; ok {
			out[i].Quantity += d.Quantity
			continue
		}
		idx[d.ArticleID] = len(out)
		out = append(out, d)
	}
	return out
}

// LockOrder IDs únicos en orden ascendente; todo bloqueo por artículo sigue este orden
// para evitar interbloqueos entre transacciones que tocan varios artículos.
func LockOrder(deltas []Delta) []string {
	seen := make(map[string]struct{}, len(deltas))
	ids := make([]string, 0, len(deltas))
	for _, d := range deltas {
		if _, ok := seen[d.ArticleID]; ok {
			continue
		}
		seen[d.ArticleID] = struct{}{}
		ids = append(ids, d.ArticleID)
	}
	sort.Strings(ids)
	return ids
}

// DuplicateArticleIDs IDs que aparecen en más de una línea, cada uno una vez,
// en el orden en que se detecta la repetición.
func DuplicateArticleIDs(lines []entity.Line) []string {
	seen := make(map[string]bool, len(lines))
	reported := make(map[string]bool)
	var dups []string
	for _, l := range lines {
		if !seen[l.ArticleID] {
			seen[l.ArticleID] = true
			continue
		}
		if !reported[l.ArticleID] {
			reported[l.ArticleID] = true
			dups = append(dups, l.ArticleID)
		}
	}
	return dups
}
