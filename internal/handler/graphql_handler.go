package handler

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"projecthub-service/pkg/logger"
)

// GraphQLRequest is the body of a POST /graphql call
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// GraphQLHandler executes GraphQL documents against the schema
type GraphQLHandler struct {
	schema graphql.Schema
}

// NewGraphQLHandler creates the handler for the GraphQL endpoint
func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

// Execute handles POST /graphql. Execution errors come back inside the
// result envelope with a client error status; success is status-ok with
// the same envelope shape.
func (h *GraphQLHandler) Execute(c echo.Context) error {
	log := logger.FromEcho(c)

	var req GraphQLRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse GraphQL request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []echo.Map{
			{"message": "invalid request body"},
		}})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []echo.Map{
			{"message": "query is required"},
		}})
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request().Context(),
	})

	if len(result.Errors) > 0 {
		messages := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			messages = append(messages, e.Message)
		}
		log.Error("GraphQL execution failed", zap.Strings("errors", messages))
		return c.JSON(http.StatusBadRequest, result)
	}

	return c.JSON(http.StatusOK, result)
}
