package graphql

import (
	"github.com/graphql-go/graphql"

	"petstore-api/internal/domain/tasks"
	"petstore-api/internal/query"
)

// Los resolvers de campo son explícitos: los nombres GraphQL van en
// camelCase y los structs de dominio no llevan tags para eso.

func newTaskType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: taskField(func(t tasks.Task) interface{} { return t.ID }),
			},
			"title": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: taskField(func(t tasks.Task) interface{} { return t.Title }),
			},
			"description": &graphql.Field{
				Type:    graphql.String,
				Resolve: taskField(func(t tasks.Task) interface{} { return t.Description }),
			},
			"dueAt": &graphql.Field{
				Type: graphql.DateTime,
				Resolve: taskField(func(t tasks.Task) interface{} {
					if t.DueAt == nil {
						return nil
					}
					return *t.DueAt
				}),
			},
			"isResolved": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: taskField(func(t tasks.Task) interface{} { return t.IsResolved }),
			},
			"createdAt": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.DateTime),
				Resolve: taskField(func(t tasks.Task) interface{} { return t.CreatedAt }),
			},
			"updatedAt": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.DateTime),
				Resolve: taskField(func(t tasks.Task) interface{} { return t.UpdatedAt }),
			},
		},
	})
}

// taskField acepta Task por valor o por puntero (las mutations cargan *Task).
func taskField(get func(tasks.Task) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		switch src := p.Source.(type) {
		case tasks.Task:
			return get(src), nil
		case *tasks.Task:
			if src == nil {
				return nil, nil
			}
			return get(*src), nil
		default:
			return nil, nil
		}
	}
}

func newPaginationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "PaginationInfo",
		Fields: graphql.Fields{
			"total": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: pageInfoField(func(i query.PageInfo) interface{} { return i.Total }),
			},
			"page": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: pageInfoField(func(i query.PageInfo) interface{} { return i.Page }),
			},
			"pageSize": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: pageInfoField(func(i query.PageInfo) interface{} { return i.PageSize }),
			},
			"hasNext": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: pageInfoField(func(i query.PageInfo) interface{} { return i.HasNext }),
			},
			"hasPrevious": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: pageInfoField(func(i query.PageInfo) interface{} { return i.HasPrevious }),
			},
		},
	})
}

func pageInfoField(get func(query.PageInfo) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if info, ok := p.Source.(query.PageInfo); ok {
			return get(info), nil
		}
		return nil, nil
	}
}

func newConnectionType(taskType *graphql.Object, paginationType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "TaskConnection",
		Fields: graphql.Fields{
			"items": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(taskType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(connection); ok {
						return c.Items, nil
					}
					return nil, nil
				},
			},
			"pagination": &graphql.Field{
				Type: graphql.NewNonNull(paginationType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(connection); ok {
						return c.Pagination, nil
					}
					return nil, nil
				},
			},
		},
	})
}

func newCreateTaskInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateTaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"dueAt":       &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
		},
	})
}

func newUpdateTaskInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateTaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"dueAt":       &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"isResolved":  &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
}

func newResponseType(taskType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "TaskResponse",
		Fields: graphql.Fields{
			"success": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: responseField(func(r response) interface{} { return r.Success }),
			},
			"message": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: responseField(func(r response) interface{} { return r.Message }),
			},
			"task": &graphql.Field{
				Type: taskType,
				Resolve: responseField(func(r response) interface{} {
					if r.Task == nil {
						return nil
					}
					return *r.Task
				}),
			},
		},
	})
}

func responseField(get func(response) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if r, ok := p.Source.(response); ok {
			return get(r), nil
		}
		return nil, nil
	}
}

func newDeleteResponseType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "DeleteResponse",
		Fields: graphql.Fields{
			"success": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if r, ok := p.Source.(deleteResponse); ok {
						return r.Success, nil
					}
					return nil, nil
				},
			},
			"message": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if r, ok := p.Source.(deleteResponse); ok {
						return r.Message, nil
					}
					return nil, nil
				},
			},
		},
	})
}
