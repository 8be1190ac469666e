package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// Node nodo del árbol ensamblado. Children es nil cuando el nodo no tiene hijos
// (ofertas y categorías vacías).
type Node struct {
	ID       string
	Name     string
	Kind     entity.Kind
	ParentID string
	Price    *int64
	Date     time.Time
	Children []*Node
}

// Child busca un hijo directo por id.
func (n *Node) Child(id string) *Node {
	for _, ch := range n.Children {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

// Walk recorre el subárbol en preorden.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, ch := range n.Children {
		ch.Walk(fn)
	}
}

func newNode(u *entity.ShopUnit) *Node {
	n := &Node{
		ID:       u.ID,
		Name:     u.Name,
		Kind:     u.Kind,
		ParentID: u.ParentID,
		Date:     u.Date,
	}
	if u.Price != nil {
		p := *u.Price
		n.Price = &p
	}
	return n
}

// Assemble construye el árbol anidado a partir del registro raíz, las aristas alcanzables
// y el mapa id→registro. Las categorías se expanden por índice padre→hijos; las ofertas son terminales.
//
// Las aristas que no cuelgan de ningún nodo expandido (padre fuera del árbol, o una oferta
// con hijos) se descartan y se devuelven en dropped para que el llamador las reporte.
// Una arista alcanzable cuyo hijo no tiene registro, o un nodo alcanzado dos veces, es ErrDataIntegrity.
func Assemble(root *entity.ShopUnit, edges []entity.Edge, records map[string]*entity.ShopUnit) (tree *Node, dropped []entity.Edge, err error) {
	if root == nil {
		return nil, nil, fmt.Errorf("%w: raíz nula", domain.ErrDataIntegrity)
	}
	children := childIndex(edges)
	consumed := make(map[entity.Edge]struct{}, len(edges))
	visited := map[string]struct{}{root.ID: {}}

	tree = newNode(root)
	stack := []*Node{tree}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Kind != entity.KindCategory {
			continue
		}
		for _, childID := range children[cur.ID] {
			consumed[entity.Edge{ParentID: cur.ID, ChildID: childID}] = struct{}{}
			if _, seen := visited[childID]; seen {
				return nil, nil, fmt.Errorf("%w: %s alcanzado dos veces desde %s", domain.ErrDataIntegrity, childID, root.ID)
			}
			visited[childID] = struct{}{}
			rec, ok := records[childID]
			if !ok || rec == nil {
				return nil, nil, fmt.Errorf("%w: arista %s→%s sin registro hijo", domain.ErrDataIntegrity, cur.ID, childID)
			}
			child := newNode(rec)
			cur.Children = append(cur.Children, child)
			stack = append(stack, child)
		}
	}

	for _, e := range edges {
		if _, ok := consumed[e]; !ok {
			dropped = append(dropped, e)
		}
	}
	sort.Slice(dropped, func(i, j int) bool {
		if dropped[i].ParentID != dropped[j].ParentID {
			return dropped[i].ParentID < dropped[j].ParentID
		}
		return dropped[i].ChildID < dropped[j].ChildID
	})
	return tree, dropped, nil
}
