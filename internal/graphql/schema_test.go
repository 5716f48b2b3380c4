package graphql_test

import (
	"context"
	"fmt"
	"testing"

	gqlgo "github.com/graphql-go/graphql"

	mem "petstore-api/internal/adapters/storage/memory"
	"petstore-api/internal/domain/tasks"
	gql "petstore-api/internal/graphql"
)

func newSchema(t *testing.T) (gqlgo.Schema, *tasks.Service) {
	t.Helper()
	svc := tasks.NewService(mem.New().Tasks(), 100)
	schema, err := gql.NewSchema(svc)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return schema, svc
}

func exec(t *testing.T, schema gqlgo.Schema, query string, vars map[string]interface{}) map[string]interface{} {
	t.Helper()
	result := gqlgo.Do(gqlgo.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        context.Background(),
	})
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected graphql errors: %v", result.Errors)
	}
	return result.Data.(map[string]interface{})
}

func TestCreateTaskMutation(t *testing.T) {
	schema, _ := newSchema(t)

	data := exec(t, schema, `
		mutation {
			createTask(input: {title: "Comprar comida", description: "para el gato"}) {
				success
				message
				task { id title description isResolved }
			}
		}
	`, nil)

	resp := data["createTask"].(map[string]interface{})
	if resp["success"] != true {
		t.Fatalf("expected success, got %+v", resp)
	}
	task := resp["task"].(map[string]interface{})
	if task["title"] != "Comprar comida" || task["isResolved"] != false {
		t.Fatalf("unexpected task payload: %+v", task)
	}
}

func TestCreateTask_DomainFailureIsNotTopLevelError(t *testing.T) {
	schema, _ := newSchema(t)

	// título en blanco: falla de dominio => success=false, sin errors
	data := exec(t, schema, `
		mutation {
			createTask(input: {title: "   "}) {
				success
				message
				task { id }
			}
		}
	`, nil)

	resp := data["createTask"].(map[string]interface{})
	if resp["success"] != false {
		t.Fatalf("expected success=false, got %+v", resp)
	}
	if resp["task"] != nil {
		t.Fatalf("expected null task, got %+v", resp["task"])
	}
	if resp["message"] == "" {
		t.Fatal("expected a failure message")
	}
}

func TestUpdateTaskMutation_InputObject(t *testing.T) {
	schema, svc := newSchema(t)
	created, err := svc.Create(context.Background(), tasks.CreateInput{Title: "viejo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	q := fmt.Sprintf(`mutation {
		updateTask(id: %q, input: {title: "nuevo", isResolved: true}) {
			success
			task { title description isResolved }
		}
	}`, created.ID)

	data := exec(t, schema, q, nil)
	resp := data["updateTask"].(map[string]interface{})
	if resp["success"] != true {
		t.Fatalf("expected success, got %+v", resp)
	}
	task := resp["task"].(map[string]interface{})
	if task["title"] != "nuevo" || task["isResolved"] != true {
		t.Fatalf("unexpected task payload: %+v", task)
	}
	// campo no enviado en el input: queda como estaba
	if task["description"] != "" {
		t.Fatalf("expected untouched description, got %+v", task)
	}
}

func TestToggleResolvedMutation(t *testing.T) {
	schema, svc := newSchema(t)
	created, err := svc.Create(context.Background(), tasks.CreateInput{Title: "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	q := fmt.Sprintf(`mutation { toggleResolved(id: %q) { success task { isResolved } } }`, created.ID)

	data := exec(t, schema, q, nil)
	resp := data["toggleResolved"].(map[string]interface{})
	if resp["success"] != true {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp["task"].(map[string]interface{})["isResolved"] != true {
		t.Fatalf("expected resolved after toggle, got %+v", resp)
	}

	// id inexistente: success=false, no error top-level
	data = exec(t, schema, `mutation { toggleResolved(id: "ghost") { success message } }`, nil)
	resp = data["toggleResolved"].(map[string]interface{})
	if resp["success"] != false {
		t.Fatalf("expected success=false for unknown id, got %+v", resp)
	}
}

func TestMarkResolvedAndUnresolved(t *testing.T) {
	schema, svc := newSchema(t)
	created, _ := svc.Create(context.Background(), tasks.CreateInput{Title: "x"})

	q := fmt.Sprintf(`mutation { markResolved(id: %q) { success task { isResolved } } }`, created.ID)
	data := exec(t, schema, q, nil)
	if data["markResolved"].(map[string]interface{})["task"].(map[string]interface{})["isResolved"] != true {
		t.Fatalf("expected resolved, got %+v", data)
	}

	q = fmt.Sprintf(`mutation { markUnresolved(id: %q) { success task { isResolved } } }`, created.ID)
	data = exec(t, schema, q, nil)
	if data["markUnresolved"].(map[string]interface{})["task"].(map[string]interface{})["isResolved"] != false {
		t.Fatalf("expected unresolved, got %+v", data)
	}
}

func TestTasksQueryPagination(t *testing.T) {
	schema, svc := newSchema(t)
	for i := 0; i < 15; i++ {
		if _, err := svc.Create(context.Background(), tasks.CreateInput{Title: fmt.Sprintf("task %02d", i)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	data := exec(t, schema, `
		{
			tasks(page: 2, pageSize: 10, orderBy: "title") {
				items { title }
				pagination { total page hasNext hasPrevious }
			}
		}
	`, nil)

	conn := data["tasks"].(map[string]interface{})
	items := conn["items"].([]interface{})
	info := conn["pagination"].(map[string]interface{})

	if len(items) != 5 {
		t.Fatalf("expected 5 items on page 2, got %d", len(items))
	}
	if info["total"] != 15 || info["hasNext"] != false || info["hasPrevious"] != true {
		t.Fatalf("unexpected pagination: %+v", info)
	}
}

func TestResolvedAndUnresolvedQueries(t *testing.T) {
	schema, svc := newSchema(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, tasks.CreateInput{Title: "done"})
	svc.Create(ctx, tasks.CreateInput{Title: "pending"})
	svc.MarkResolved(ctx, a.ID, true)

	data := exec(t, schema, `{ resolvedTasks { items { title } pagination { total } } }`, nil)
	conn := data["resolvedTasks"].(map[string]interface{})
	if conn["pagination"].(map[string]interface{})["total"] != 1 {
		t.Fatalf("expected 1 resolved, got %+v", conn)
	}

	data = exec(t, schema, `{ unresolvedTasks { items { title } pagination { total } } }`, nil)
	conn = data["unresolvedTasks"].(map[string]interface{})
	if conn["pagination"].(map[string]interface{})["total"] != 1 {
		t.Fatalf("expected 1 unresolved, got %+v", conn)
	}
}

func TestSearchTasksQuery(t *testing.T) {
	schema, svc := newSchema(t)
	ctx := context.Background()
	svc.Create(ctx, tasks.CreateInput{Title: "Comprar comida"})
	svc.Create(ctx, tasks.CreateInput{Title: "Otra cosa"})

	data := exec(t, schema, `{ searchTasks(query: "comida") { pagination { total } } }`, nil)
	conn := data["searchTasks"].(map[string]interface{})
	if conn["pagination"].(map[string]interface{})["total"] != 1 {
		t.Fatalf("expected 1 match, got %+v", conn)
	}
}

func TestTaskQuery_NullWhenMissing(t *testing.T) {
	schema, _ := newSchema(t)

	data := exec(t, schema, `{ task(id: "ghost") { id } }`, nil)
	if data["task"] != nil {
		t.Fatalf("expected null for unknown id, got %+v", data["task"])
	}
}

func TestDeleteTaskMutation(t *testing.T) {
	schema, svc := newSchema(t)
	created, _ := svc.Create(context.Background(), tasks.CreateInput{Title: "x"})

	q := fmt.Sprintf(`mutation { deleteTask(id: %q) { success message } }`, created.ID)
	data := exec(t, schema, q, nil)
	if data["deleteTask"].(map[string]interface{})["success"] != true {
		t.Fatalf("expected success, got %+v", data)
	}

	// segundo delete: ya no existe
	data = exec(t, schema, q, nil)
	if data["deleteTask"].(map[string]interface{})["success"] != false {
		t.Fatalf("expected success=false on second delete, got %+v", data)
	}
}
