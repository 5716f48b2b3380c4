package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"petstore-api/internal/domain/store"
	"petstore-api/internal/query"
)

type OrdersRepo struct {
	db *sql.DB
}

func NewOrdersRepo(db *sql.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

const orderCols = "id, pet_id, user_id, quantity, ship_at, status, complete, created_at, updated_at"

func (r *OrdersRepo) Create(ctx context.Context, o store.Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		o.ID,
		o.PetID,
		toNullString(o.UserID),
		o.Quantity,
		toNullTime(o.ShipAt),
		string(o.Status),
		o.Complete,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *OrdersRepo) Update(ctx context.Context, o store.Order) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET pet_id = $2,
			user_id = $3,
			quantity = $4,
			ship_at = $5,
			status = $6,
			complete = $7,
			updated_at = $8
		WHERE id = $1
	`,
		o.ID,
		o.PetID,
		toNullString(o.UserID),
		o.Quantity,
		toNullTime(o.ShipAt),
		string(o.Status),
		o.Complete,
		o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *OrdersRepo) GetByID(ctx context.Context, id string) (store.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE id = $1", id)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return store.Order{}, store.ErrNotFound
	}
	return o, err
}

func (r *OrdersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *OrdersRepo) List(ctx context.Context, plan query.Plan) ([]store.Order, query.PageInfo, error) {
	q := &listQuery{}

	for _, flt := range plan.Filters {
		switch flt.Field {
		case "status":
			q.and(fmt.Sprintf("status = %s", q.arg(flt.Value)))
		case "complete":
			q.and(fmt.Sprintf("complete = %s", q.arg(flt.Value == "true")))
		case "user":
			q.and(fmt.Sprintf("user_id = %s", q.arg(flt.Value)))
		}
	}

	total, err := countTotal(ctx, r.db, "orders", q)
	if err != nil {
		return nil, query.PageInfo{}, err
	}

	orderBy := map[string]string{
		"created_at": "created_at",
		"status":     "status",
		"ship_at":    "ship_at",
	}
	sqlStr := "SELECT " + orderCols + " FROM orders" +
		q.whereClause() + q.orderLimit(plan, orderBy, "created_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, sqlStr, q.args...)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	defer rows.Close()

	out := make([]store.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, query.PageInfo{}, err
		}
		out = append(out, o)
	}
	return out, plan.PageInfo(total), rows.Err()
}

func scanOrder(row rowScanner) (store.Order, error) {
	var o store.Order
	var user sql.NullString
	var ship sql.NullTime
	var status string
	err := row.Scan(
		&o.ID,
		&o.PetID,
		&user,
		&o.Quantity,
		&ship,
		&status,
		&o.Complete,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return store.Order{}, err
	}
	o.UserID = fromNullString(user)
	o.ShipAt = fromNullTime(ship)
	o.Status = store.Status(status)
	return o, nil
}
