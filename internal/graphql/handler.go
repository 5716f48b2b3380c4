package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql"

	"petstore-api/internal/api"
)

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// RegisterRoutes monta el endpoint único POST /graphql.
func RegisterRoutes(r chi.Router, schema graphql.Schema) {
	r.Post("/graphql", func(w http.ResponseWriter, req *http.Request) {
		var body request
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.Query == "" {
			api.WriteError(w, http.StatusBadRequest, "query is required")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			OperationName:  body.OperationName,
			Context:        req.Context(),
		})

		// los errores de ejecución viajan en el campo errors del body;
		// el status HTTP es 200 igual (convención GraphQL)
		api.WriteJSON(w, http.StatusOK, result)
	})
}
