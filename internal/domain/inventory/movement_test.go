package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func lines(pairs ...any) []entity.Line {
	var out []entity.Line
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, entity.Line{ArticleID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}

func TestDeltasFor_SignoSegunTipo(t *testing.T) {
	ls := lines("a", 3, "b", 2)

	assert.Equal(t, []inventory.Delta{{"a", -3}, {"b", -2}}, inventory.DeltasFor(entity.KindSale, ls))
	assert.Equal(t, []inventory.Delta{{"a", 3}, {"b", 2}}, inventory.DeltasFor(entity.KindPurchase, ls))
}

func TestReversalFor_InvierteCantidadesGuardadas(t *testing.T) {
	tx := &entity.Transaction{Kind: entity.KindSale, Lines: lines("a", 3)}
	assert.Equal(t, []inventory.Delta{{"a", 3}}, inventory.ReversalFor(tx))

	tx.Kind = entity.KindPurchase
	assert.Equal(t, []inventory.Delta{{"a", -3}}, inventory.ReversalFor(tx))
}

func TestNet_AgrupaPorArticulo(t *testing.T) {
	got := inventory.Net([]inventory.Delta{{"b", 2}, {"a", 1}, {"b", 5}})
	assert.Equal(t, []inventory.Delta{{"b", 7}, {"a", 1}}, got)
}

func TestLockOrder_AscendenteSinRepetidos(t *testing.T) {
	got := inventory.LockOrder([]inventory.Delta{{"c", 1}, {"a", 1}, {"c", -1}, {"b", 1}})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestDuplicateArticleIDs(t *testing.T) {
	assert.Empty(t, inventory.DuplicateArticleIDs(lines("a", 1, "b", 1)))
	assert.Equal(t, []string{"a", "c"}, inventory.DuplicateArticleIDs(lines("a", 1, "c", 1, "a", 2, "c", 1, "a", 1)))
}
