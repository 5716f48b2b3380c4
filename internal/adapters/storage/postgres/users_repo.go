package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"petstore-api/internal/domain/users"
	"petstore-api/internal/query"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userCols = "id, username, first_name, last_name, email, password_hash, phone, user_status, is_active, is_staff, created_at, updated_at"

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		u.ID,
		u.Username,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.StatusCode,
		u.IsActive,
		u.IsStaff,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET username = $2,
			first_name = $3,
			last_name = $4,
			email = $5,
			password_hash = $6,
			phone = $7,
			user_status = $8,
			is_active = $9,
			is_staff = $10,
			updated_at = $11
		WHERE id = $1
	`,
		u.ID,
		u.Username,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.StatusCode,
		u.IsActive,
		u.IsStaff,
		u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id = $1", id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return users.User{}, users.ErrNotFound
	}
	return u, err
}

// Delete borra la cuenta; sus órdenes caen por el ON DELETE CASCADE.
func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) List(ctx context.Context, plan query.Plan) ([]users.User, query.PageInfo, error) {
	q := &listQuery{}

	for _, flt := range plan.Filters {
		switch flt.Field {
		case "is_active":
			q.and(fmt.Sprintf("is_active = %s", q.arg(flt.Value == "true")))
		case "user_status":
			// el valor llega como string; si no parsea, no matchea nada
			code, err := strconv.Atoi(flt.Value)
			if err != nil {
				q.and("FALSE")
				continue
			}
			q.and(fmt.Sprintf("user_status = %s", q.arg(code)))
		}
	}
	if plan.Search != "" {
		q.searchILike(plan.Search,
			"username ILIKE %s",
			"email ILIKE %s",
			"first_name ILIKE %s",
			"last_name ILIKE %s",
		)
	}

	total, err := countTotal(ctx, r.db, "users", q)
	if err != nil {
		return nil, query.PageInfo{}, err
	}

	orderBy := map[string]string{
		"username":   "username",
		"email":      "email",
		"created_at": "created_at",
	}
	sqlStr := "SELECT " + userCols + " FROM users" + q.whereClause() +
		q.orderLimit(plan, orderBy, "created_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, sqlStr, q.args...)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, query.PageInfo{}, err
		}
		out = append(out, u)
	}
	return out, plan.PageInfo(total), rows.Err()
}

func (r *UsersRepo) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)",
		username, excludeID).Scan(&ok)
	return ok, err
}

func scanUser(row rowScanner) (users.User, error) {
	var u users.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.StatusCode,
		&u.IsActive,
		&u.IsStaff,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
