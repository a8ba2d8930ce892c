package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/pkg/textsearch"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

// wrap traduce violaciones de constraints a errores de dominio y envuelve el resto.
func wrap(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

// foldSQL replica textsearch.Fold en SQL para columnas de texto. Se usa translate en lugar de
// unaccent porque la extensión no siempre está habilitada en la base.
func foldSQL(col string) string {
	return fmt.Sprintf("translate(lower(coalesce(%s, '')), 'áéíóúüñàèìòù', 'aeiouunaeiou')", col)
}

// where acumula condiciones y argumentos posicionales ($1, $2...).
type where struct {
	conds []string
	args  []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// add agrega una condición; cada "?" se reemplaza por el siguiente argumento.
func (w *where) add(cond string, vals ...any) {
	for _, v := range vals {
		cond = strings.Replace(cond, "?", w.arg(v), 1)
	}
	w.conds = append(w.conds, cond)
}

// likeEscaper escapa los comodines de LIKE para que la palabra se busque literal.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// search exige que cada palabra de query aparezca en alguna de las columnas.
func (w *where) search(query string, cols ...string) {
	for _, word := range textsearch.Words(query) {
		p := w.arg("%" + likeEscaper.Replace(word) + "%")
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = foldSQL(c) + " LIKE " + p + ` ESCAPE '\'`
		}
		w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
	}
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET con los argumentos del builder.
func (w *where) page(p repository.Page) string {
	if p.Limit <= 0 {
		return fmt.Sprintf(" OFFSET %s", w.arg(p.Offset))
	}
	return fmt.Sprintf(" LIMIT %s OFFSET %s", w.arg(p.Limit), w.arg(p.Offset))
}
