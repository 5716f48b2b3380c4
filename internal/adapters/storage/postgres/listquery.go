package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"petstore-api/internal/query"
)

// listQuery acumula condiciones y argumentos para traducir un Plan a SQL.
// Cada repo arma sus condiciones con and/arg y después pide whereClause
// más orderLimit; el COUNT reusa el mismo WHERE para que el total y la
// página salgan del mismo predicado.
type listQuery struct {
	conds []string
	args  []any
}

// arg registra un argumento y devuelve su placeholder ($1, $2, ...).
func (q *listQuery) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *listQuery) and(cond string) {
	q.conds = append(q.conds, cond)
}

// inList registra cada valor y devuelve los placeholders separados por
// coma, para cláusulas IN.
func (q *listQuery) inList(vals []string) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, q.arg(v))
	}
	return strings.Join(parts, ", ")
}

func (q *listQuery) whereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// likeEscaper neutraliza los metacaracteres de LIKE para que el término
// se busque literal, igual que el Contains del storage en memoria.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchILike agrega una condición OR de ILIKE sobre las expresiones
// dadas, con el término escapado y envuelto en %...%.
func (q *listQuery) searchILike(term string, exprs ...string) {
	pat := "%" + likeEscaper.Replace(term) + "%"
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, fmt.Sprintf(e, q.arg(pat)))
	}
	q.and("(" + strings.Join(parts, " OR ") + ")")
}

// orderLimit arma ORDER BY + LIMIT/OFFSET. cols mapea campo del plan a
// expresión SQL; tiebreak fija el desempate por orden de creación, igual
// que el sort estable del storage en memoria.
func (q *listQuery) orderLimit(p query.Plan, cols map[string]string, tiebreak string) string {
	var b strings.Builder

	if col, ok := cols[p.OrderField]; ok && p.OrderField != "" {
		dir := " ASC"
		if p.Desc {
			dir = " DESC"
		}
		b.WriteString(" ORDER BY " + col + dir + " NULLS LAST, " + tiebreak)
	} else {
		b.WriteString(" ORDER BY " + tiebreak)
	}

	b.WriteString(fmt.Sprintf(" LIMIT %s OFFSET %s",
		q.arg(p.PageSize), q.arg((p.Page-1)*p.PageSize)))
	return b.String()
}

// countTotal ejecuta el COUNT con el WHERE acumulado (antes de agregar
// los args de LIMIT/OFFSET).
func countTotal(ctx context.Context, db *sql.DB, from string, q *listQuery) (int, error) {
	var total int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+from+q.whereClause(), q.args...).Scan(&total)
	return total, err
}
