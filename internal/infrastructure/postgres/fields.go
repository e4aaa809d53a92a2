package postgres

import (
	"fmt"
	"strings"
)

// Las tablas del núcleo se describen como listas ordenadas de columnas y los
// INSERT se construyen desde esos descriptores con placeholders posicionales:
// los valores viajan siempre como parámetros, nunca concatenados en el SQL.

// insertSQL construye un INSERT parametrizado a partir del descriptor de columnas.
// Si returning no es vacío agrega la cláusula RETURNING.
func insertSQL(table string, cols []string, returning string) string {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	if returning != "" {
		q += " RETURNING " + returning
	}
	return q
}
