package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"petstore-api/internal/domain/tasks"
	"petstore-api/internal/query"
)

type TasksRepo struct {
	db *sql.DB
}

func NewTasksRepo(db *sql.DB) *TasksRepo {
	return &TasksRepo{db: db}
}

const taskCols = "id, title, description, due_at, is_resolved, created_at, updated_at"

func (r *TasksRepo) Create(ctx context.Context, t tasks.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		t.ID,
		t.Title,
		t.Description,
		toNullTime(t.DueAt),
		t.IsResolved,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *TasksRepo) Update(ctx context.Context, t tasks.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $2,
			description = $3,
			due_at = $4,
			is_resolved = $5,
			updated_at = $6
		WHERE id = $1
	`,
		t.ID,
		t.Title,
		t.Description,
		toNullTime(t.DueAt),
		t.IsResolved,
		t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

func (r *TasksRepo) GetByID(ctx context.Context, id string) (tasks.Task, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskCols+" FROM tasks WHERE id = $1", id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return t, err
}

func (r *TasksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

func (r *TasksRepo) List(ctx context.Context, plan query.Plan, f tasks.ListFilter) ([]tasks.Task, query.PageInfo, error) {
	q := &listQuery{}

	for _, flt := range plan.Filters {
		if flt.Field == "is_resolved" {
			q.and(fmt.Sprintf("is_resolved = %s", q.arg(flt.Value == "true")))
		}
	}
	if f.OverdueBefore != nil {
		q.and(fmt.Sprintf("is_resolved = FALSE AND due_at < %s", q.arg(*f.OverdueBefore)))
	}
	if plan.Search != "" {
		q.searchILike(plan.Search, "title ILIKE %s", "description ILIKE %s")
	}

	total, err := countTotal(ctx, r.db, "tasks", q)
	if err != nil {
		return nil, query.PageInfo{}, err
	}

	orderCols := map[string]string{
		"created_at":  "created_at",
		"due_at":      "due_at",
		"title":       "title",
		"is_resolved": "is_resolved",
	}
	sqlStr := "SELECT " + taskCols + " FROM tasks" + q.whereClause() +
		q.orderLimit(plan, orderCols, "created_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, sqlStr, q.args...)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	defer rows.Close()

	out := make([]tasks.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, query.PageInfo{}, err
		}
		out = append(out, t)
	}
	return out, plan.PageInfo(total), rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (tasks.Task, error) {
	var t tasks.Task
	var due sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&due,
		&t.IsResolved,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return tasks.Task{}, err
	}
	t.DueAt = fromNullTime(due)
	return t, nil
}
