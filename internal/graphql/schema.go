// Package graphql expone la superficie GraphQL de tasks. Comparte el
// Service con los handlers REST, así ambas superficies tienen exactamente
// la misma semántica de filtros, búsqueda, orden, paginado y validación.
//
// El esquema se construye a mano (graphql-go programático), sin generación
// de código: los resolvers son cierres sobre el Service.
package graphql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"

	"petstore-api/internal/domain/tasks"
	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

// NewSchema arma el esquema completo de queries y mutations.
func NewSchema(svc *tasks.Service) (graphql.Schema, error) {
	taskType := newTaskType()
	paginationType := newPaginationType()
	connectionType := newConnectionType(taskType, paginationType)
	responseType := newResponseType(taskType)
	deleteResponseType := newDeleteResponseType()
	createInputType := newCreateTaskInput()
	updateInputType := newUpdateTaskInput()

	queries := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"tasks": &graphql.Field{
				Type: connectionType,
				Args: listArgs(graphql.FieldConfigArgument{
					"isResolved": &graphql.ArgumentConfig{Type: graphql.Boolean},
					"search":     &graphql.ArgumentConfig{Type: graphql.String},
				}),
				Resolve: listResolver(svc.List, func(p graphql.ResolveParams, in *query.Params) {
					if v, ok := p.Args["isResolved"].(bool); ok {
						in.Filters["is_resolved"] = strconv.FormatBool(v)
					}
					if v, ok := p.Args["search"].(string); ok {
						in.Search = v
					}
				}),
			},
			"task": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					t, err := svc.GetByID(p.Context, p.Args["id"].(string))
					if err == tasks.ErrNotFound {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return t, nil
				},
			},
			"resolvedTasks": &graphql.Field{
				Type:    connectionType,
				Args:    listArgs(nil),
				Resolve: listResolver(svc.ListResolved, nil),
			},
			"unresolvedTasks": &graphql.Field{
				Type:    connectionType,
				Args:    listArgs(nil),
				Resolve: listResolver(svc.ListUnresolved, nil),
			},
			"overdueTasks": &graphql.Field{
				Type:    connectionType,
				Args:    listArgs(nil),
				Resolve: listResolver(svc.ListOverdue, nil),
			},
			"searchTasks": &graphql.Field{
				Type: connectionType,
				Args: listArgs(graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, info, err := svc.Search(p.Context, p.Args["query"].(string), paramsFrom(p))
					if err != nil {
						return nil, err
					}
					return connection{Items: items, Pagination: info}, nil
				},
			},
		},
	})

	mutations := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createTask": &graphql.Field{
				Type: responseType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw := p.Args["input"].(map[string]interface{})

					in := tasks.CreateInput{Title: raw["title"].(string)}
					if v, ok := raw["description"].(string); ok {
						in.Description = v
					}
					if v, ok := raw["dueAt"].(time.Time); ok {
						in.DueAt = &v
					}

					t, err := svc.Create(p.Context, in)
					if err != nil {
						return failure(err), nil
					}
					return response{Success: true, Message: "task created", Task: &t}, nil
				},
			},
			"updateTask": &graphql.Field{
				Type: responseType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw := p.Args["input"].(map[string]interface{})

					// campos ausentes o en null quedan sin tocar;
					// limpiar due_at es cosa del PATCH REST
					var in tasks.UpdateInput
					if v, ok := raw["title"].(string); ok {
						in.Title = &v
					}
					if v, ok := raw["description"].(string); ok {
						in.Description = &v
					}
					if v, ok := raw["dueAt"].(time.Time); ok {
						in.DueAt.Set = true
						in.DueAt.Value = &v
					}
					if v, ok := raw["isResolved"].(bool); ok {
						in.IsResolved = &v
					}

					t, err := svc.Update(p.Context, p.Args["id"].(string), in)
					if err != nil {
						return failure(err), nil
					}
					return response{Success: true, Message: "task updated", Task: &t}, nil
				},
			},
			"deleteTask": &graphql.Field{
				Type: deleteResponseType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := svc.Delete(p.Context, p.Args["id"].(string)); err != nil {
						return deleteResponse{Success: false, Message: errMessage(err)}, nil
					}
					return deleteResponse{Success: true, Message: "task deleted"}, nil
				},
			},
			"toggleResolved": &graphql.Field{
				Type: responseType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					t, err := svc.ToggleResolved(p.Context, p.Args["id"].(string))
					if err != nil {
						return failure(err), nil
					}
					return response{Success: true, Message: "task toggled", Task: &t}, nil
				},
			},
			"markResolved": &graphql.Field{
				Type: responseType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: markResolver(svc, true, "task marked resolved"),
			},
			"markUnresolved": &graphql.Field{
				Type: responseType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: markResolver(svc, false, "task marked unresolved"),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queries,
		Mutation: mutations,
	})
}

type connection struct {
	Items      []tasks.Task
	Pagination query.PageInfo
}

// response es el sobre de las mutations: las fallas de dominio van acá
// con success=false, nunca como error top-level de GraphQL.
type response struct {
	Success bool
	Message string
	Task    *tasks.Task
}

type deleteResponse struct {
	Success bool
	Message string
}

func failure(err error) response {
	return response{Success: false, Message: errMessage(err)}
}

// errMessage aplana el error de dominio a un mensaje legible.
func errMessage(err error) string {
	if verr, ok := validate.AsErrors(err); ok && len(verr) > 0 {
		return fmt.Sprintf("%s: %s", verr[0].Field, verr[0].Message)
	}
	return err.Error()
}

// listArgs agrega los argumentos comunes de listado a los extra del campo.
func listArgs(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"orderBy":  &graphql.ArgumentConfig{Type: graphql.String},
		"page":     &graphql.ArgumentConfig{Type: graphql.Int},
		"pageSize": &graphql.ArgumentConfig{Type: graphql.Int},
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

func paramsFrom(p graphql.ResolveParams) query.Params {
	in := query.Params{Filters: map[string]string{}}
	if v, ok := p.Args["orderBy"].(string); ok {
		in.Ordering = v
	}
	if v, ok := p.Args["page"].(int); ok {
		in.Page = strconv.Itoa(v)
	}
	if v, ok := p.Args["pageSize"].(int); ok {
		in.PageSize = strconv.Itoa(v)
	}
	return in
}

type listCall func(ctx context.Context, in query.Params) ([]tasks.Task, query.PageInfo, error)

func listResolver(list listCall, extend func(graphql.ResolveParams, *query.Params)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		in := paramsFrom(p)
		if extend != nil {
			extend(p, &in)
		}
		items, info, err := list(p.Context, in)
		if err != nil {
			return nil, err
		}
		return connection{Items: items, Pagination: info}, nil
	}
}

func markResolver(svc *tasks.Service, resolved bool, msg string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		t, err := svc.MarkResolved(p.Context, p.Args["id"].(string), resolved)
		if err != nil {
			return failure(err), nil
		}
		return response{Success: true, Message: msg, Task: &t}, nil
	}
}
