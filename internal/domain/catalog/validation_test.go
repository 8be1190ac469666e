package catalog_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

func price(v int64) *int64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// ValidateBatch / ValidateUnit
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateBatch_Rechazos(t *testing.T) {
	negative := offer("neg", "", 0)
	negative.Price = price(-1007)
	catWithPrice := category("cat", "")
	catWithPrice.Price = price(10)
	offerNoPrice := offer("o", "", 0)
	offerNoPrice.Price = nil
	noName := category("x", "")
	noName.Name = "  "
	unknown := category("u", "")
	unknown.Kind = "BUNDLE"
	self := category("self", "self")

	cases := []struct {
		name  string
		items []*entity.ShopUnit
	}{
		{"lote vacío", nil},
		{"precio negativo", []*entity.ShopUnit{negative}},
		{"categoría con precio", []*entity.ShopUnit{catWithPrice}},
		{"oferta sin precio", []*entity.ShopUnit{offerNoPrice}},
		{"nombre vacío", []*entity.ShopUnit{noName}},
		{"tipo desconocido", []*entity.ShopUnit{unknown}},
		{"padre de sí mismo", []*entity.ShopUnit{self}},
		{"id repetido", []*entity.ShopUnit{category("a", ""), offer("a", "", 1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := catalog.ValidateBatch(tc.items, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestValidateBatch_ExcedeElMaximo(t *testing.T) {
	items := make([]*entity.ShopUnit, 0, 4)
	for i := 0; i < 4; i++ {
		items = append(items, category(fmt.Sprintf("c%d", i), ""))
	}

	assert.NoError(t, catalog.ValidateBatch(items, 4))
	assert.ErrorIs(t, catalog.ValidateBatch(items, 3), domain.ErrInvalidInput)
}

func TestValidateBatch_OfertaConPrecioCeroEsValida(t *testing.T) {
	assert.NoError(t, catalog.ValidateBatch([]*entity.ShopUnit{offer("free", "", 0)}, 0))
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateReferences
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateReferences_PadreDelMismoLote(t *testing.T) {
	items := []*entity.ShopUnit{offer("o", "c", 10), category("c", "")}

	assert.NoError(t, catalog.ValidateReferences(items, nil))
}

func TestValidateReferences_PadrePersistido(t *testing.T) {
	items := []*entity.ShopUnit{offer("o", "c", 10)}

	assert.NoError(t, catalog.ValidateReferences(items, recordsOf(category("c", ""))))
}

func TestValidateReferences_Rechazos(t *testing.T) {
	cases := []struct {
		name      string
		items     []*entity.ShopUnit
		persisted map[string]*entity.ShopUnit
	}{
		{"padre inexistente", []*entity.ShopUnit{offer("o", "nope", 1)}, nil},
		{"padre oferta persistida", []*entity.ShopUnit{category("c", "o")}, recordsOf(offer("o", "", 1))},
		{"padre oferta del lote", []*entity.ShopUnit{offer("o", "", 1), category("c", "o")}, nil},
		{"cambio de tipo", []*entity.ShopUnit{offer("x", "", 1)}, recordsOf(category("x", ""))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, catalog.ValidateReferences(tc.items, tc.persisted), domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// DetectCycles / PlanEdges
// ──────────────────────────────────────────────────────────────────────────────

func TestDetectCycles_DentroDelLote(t *testing.T) {
	items := []*entity.ShopUnit{category("a", "b"), category("b", "a")}

	assert.ErrorIs(t, catalog.DetectCycles(items, nil), domain.ErrInvalidInput)
}

func TestDetectCycles_MoverBajoUnDescendiente(t *testing.T) {
	// persistido: root → a → b ; el lote mueve root bajo b
	persisted := map[string]string{"a": "root", "b": "a"}
	items := []*entity.ShopUnit{category("root", "b")}

	assert.ErrorIs(t, catalog.DetectCycles(items, persisted), domain.ErrInvalidInput)
}

func TestDetectCycles_ReasignacionValida(t *testing.T) {
	// persistido: root → a → b ; el lote saca b a la raíz y cuelga a de b
	persisted := map[string]string{"a": "root", "b": "a"}
	items := []*entity.ShopUnit{category("b", ""), category("a", "b")}

	assert.NoError(t, catalog.DetectCycles(items, persisted))
}

func TestPlanEdges(t *testing.T) {
	persisted := recordsOf(offer("moved", "old", 1), offer("same", "c", 1), category("detached", "old"))
	items := []*entity.ShopUnit{offer("moved", "new", 1), offer("same", "c", 2), category("detached", ""), offer("fresh", "c", 3)}

	plan := catalog.PlanEdges(items, persisted)

	assert.Equal(t, []string{"moved", "detached"}, plan.Detach)
	assert.Equal(t, []entity.Edge{edge("new", "moved"), edge("c", "same"), edge("c", "fresh")}, plan.Attach)
}
