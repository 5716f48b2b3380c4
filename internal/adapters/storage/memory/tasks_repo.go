package memory

import (
	"context"
	"strings"

	"petstore-api/internal/domain/tasks"
	"petstore-api/internal/query"
)

type taskRepo Store

func (r *taskRepo) Create(ctx context.Context, t tasks.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		return errIDRequired
	}
	r.tasks = append(r.tasks, t)
	return nil
}

func (r *taskRepo) Update(ctx context.Context, t tasks.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == t.ID {
			r.tasks[i] = t
			return nil
		}
	}
	return tasks.ErrNotFound
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (tasks.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return tasks.Task{}, tasks.ErrNotFound
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return tasks.ErrNotFound
}

func (r *taskRepo) List(ctx context.Context, plan query.Plan, f tasks.ListFilter) ([]tasks.Task, query.PageInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.tasks
	if f.OverdueBefore != nil {
		// el predicado de vencidas no es de igualdad, se aplica antes
		// del plan para que el total refleje solo las vencidas
		src = make([]tasks.Task, 0, len(r.tasks))
		for _, t := range r.tasks {
			if t.IsOverdue(*f.OverdueBefore) {
				src = append(src, t)
			}
		}
	}

	page, info := query.Run(plan, src, tasks.Collation())
	return page, info, nil
}
