// Package chunk parte lotes para respetar el tope de parámetros por sentencia del store.
package chunk

// MaxQueryArgs máximo de parámetros enlazados que PostgreSQL acepta en una sentencia.
const MaxQueryArgs = 32767

// RowsPerStatement filas que caben en una sentencia de varias filas con el tope dado.
func RowsPerStatement(maxArgs, columns int) int {
	if columns <= 0 {
		return maxArgs
	}
	n := maxArgs / columns
	if n < 1 {
		return 1
	}
	return n
}

// Split divide items en bloques de a lo sumo size elementos, sin copiar.
func Split[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end:end])
	}
	return out
}
