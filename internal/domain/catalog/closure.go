// Package catalog contiene los algoritmos puros del catálogo jerárquico:
// cierres sobre aristas, ensamblado del árbol, agregación de precios y validación de lotes.
package catalog

import (
	"fmt"
	"sort"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// DescendantIDs recorre en anchura las aristas alcanzables desde rootID y devuelve
// los ids visitados (rootID primero). Un nodo alcanzado dos veces implica un ciclo
// o un hijo con dos padres, y se reporta como ErrDataIntegrity.
func DescendantIDs(rootID string, edges []entity.Edge) ([]string, error) {
	children := childIndex(edges)
	visited := map[string]struct{}{rootID: {}}
	ids := []string{rootID}
	queue := []string{rootID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if _, seen := visited[child]; seen {
				return nil, fmt.Errorf("%w: %s alcanzado dos veces desde %s", domain.ErrDataIntegrity, child, rootID)
			}
			visited[child] = struct{}{}
			ids = append(ids, child)
			queue = append(queue, child)
		}
	}
	return ids, nil
}

// ClosureIDs devuelve rootID más todos los extremos de las aristas, sin validar la forma.
// Lo usa el borrado, que debe poder limpiar también datos corruptos.
func ClosureIDs(rootID string, edges []entity.Edge) []string {
	seen := map[string]struct{}{rootID: {}}
	ids := []string{rootID}
	for _, e := range edges {
		for _, id := range [2]string{e.ParentID, e.ChildID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// AncestorChain ordena las aristas desde nodeID hacia arriba hasta la raíz última:
// chain[0].ChildID == nodeID y chain[len-1].ParentID es la raíz. Sin aristas devuelve
// una cadena vacía (el nodo es su propia raíz).
func AncestorChain(nodeID string, edges []entity.Edge) ([]entity.Edge, error) {
	parentOf := make(map[string]string, len(edges))
	for _, e := range edges {
		if p, ok := parentOf[e.ChildID]; ok && p != e.ParentID {
			return nil, fmt.Errorf("%w: %s tiene dos padres (%s, %s)", domain.ErrDataIntegrity, e.ChildID, p, e.ParentID)
		}
		parentOf[e.ChildID] = e.ParentID
	}

	visited := map[string]struct{}{nodeID: {}}
	chain := make([]entity.Edge, 0, len(parentOf))
	cur := nodeID
	for {
		parent, ok := parentOf[cur]
		if !ok {
			return chain, nil
		}
		if _, seen := visited[parent]; seen {
			return nil, fmt.Errorf("%w: ciclo en la rama de %s (vuelve a %s)", domain.ErrDataIntegrity, nodeID, parent)
		}
		visited[parent] = struct{}{}
		chain = append(chain, entity.Edge{ParentID: parent, ChildID: cur})
		cur = parent
	}
}

// RootOf devuelve la raíz última de una cadena de AncestorChain.
func RootOf(nodeID string, chain []entity.Edge) string {
	if len(chain) == 0 {
		return nodeID
	}
	return chain[len(chain)-1].ParentID
}

// BranchIDs devuelve nodeID y todos sus ancestros, en orden hacia la raíz.
func BranchIDs(nodeID string, chain []entity.Edge) []string {
	ids := make([]string, 0, len(chain)+1)
	ids = append(ids, nodeID)
	for _, e := range chain {
		ids = append(ids, e.ParentID)
	}
	return ids
}

func childIndex(edges []entity.Edge) map[string][]string {
	idx := make(map[string][]string)
	for _, e := range edges {
		idx[e.ParentID] = append(idx[e.ParentID], e.ChildID)
	}
	for _, ch := range idx {
		sort.Strings(ch)
	}
	return idx
}
