package resolver

import (
	"errors"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"projecthub-service/internal/apperror"
	"projecthub-service/internal/model"
)

// Schema builds the executable GraphQL schema. Types are constructed at
// runtime; plain fields resolve through struct json tags, computed fields
// get explicit resolvers.
func (r *Resolver) Schema() (graphql.Schema, error) {
	tenantType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Tenant",
		Description: "An isolated customer partition of the data.",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.Int},
			"name": &graphql.Field{Type: graphql.String},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.Int},
			"tenantId":  &graphql.Field{Type: graphql.Int},
			"firstName": &graphql.Field{Type: graphql.String},
			"lastName":  &graphql.Field{Type: graphql.String},
			"userName":  &graphql.Field{Type: graphql.String},
			"email":     &graphql.Field{Type: graphql.String},
			"isActive":  &graphql.Field{Type: graphql.Boolean},
			"roles": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "The names of the roles assigned to the user.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := p.Source.(*model.User)
					if !ok {
						return nil, nil
					}
					return user.RoleNames(), nil
				},
			},
		},
	})

	projectType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Project",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.Int},
			"tenantId": &graphql.Field{Type: graphql.Int},
			"name":     &graphql.Field{Type: graphql.String},
		},
	})

	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.Int},
			"tenantId":       &graphql.Field{Type: graphql.Int},
			"projectId":      &graphql.Field{Type: graphql.Int},
			"name":           &graphql.Field{Type: graphql.String},
			"description":    &graphql.Field{Type: graphql.String},
			"dueDate":        &graphql.Field{Type: graphql.DateTime},
			"completed":      &graphql.Field{Type: graphql.Boolean},
			"completionDate": &graphql.Field{Type: graphql.DateTime},
			"project": &graphql.Field{
				Type: projectType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					task, ok := p.Source.(*model.Task)
					if !ok {
						return nil, nil
					}
					if task.Project != nil {
						return task.Project, nil
					}
					var project model.Project
					if err := r.db.WithContext(p.Context).First(&project, task.ProjectID).Error; err != nil {
						if errors.Is(err, gorm.ErrRecordNotFound) {
							return nil, nil
						}
						return nil, apperror.Persistence(err)
					}
					return &project, nil
				},
			},
		},
	})

	tenantInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TenantInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"name": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	userInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":        &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"tenantId":  &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"firstName": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"userName":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"isActive":  &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"password":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	projectInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProjectInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":       &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"tenantId": &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	taskInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":             &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"tenantId":       &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"projectId":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"name":           &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"dueDate":        &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"completed":      &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"completionDate": &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.operation("me", r.me),
			},
			"tenant": &graphql.Field{
				Type: tenantType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.operation("tenant", r.tenantByID),
			},
			"tenants": &graphql.Field{
				Type:    graphql.NewList(tenantType),
				Resolve: r.operation("tenants", r.tenants),
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.operation("user", r.userByID),
			},
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Args: graphql.FieldConfigArgument{
					"isActive": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: r.operation("users", r.users),
			},
			"project": &graphql.Field{
				Type: projectType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.operation("project", r.projectByID),
			},
			"projects": &graphql.Field{
				Type: graphql.NewList(projectType),
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.operation("projects", r.projects),
			},
			"task": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.operation("task", r.taskByID),
			},
			"tasks": &graphql.Field{
				Type: graphql.NewList(taskType),
				Args: graphql.FieldConfigArgument{
					"projectId": &graphql.ArgumentConfig{Type: graphql.Int},
					"completed": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: r.operation("tasks", r.tasks),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addTenant": &graphql.Field{
				Type: tenantType,
				Args: graphql.FieldConfigArgument{
					"tenant":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(tenantInput)},
					"adminUser": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInput)},
				},
				Resolve: r.operation("addTenant", r.addTenant),
			},
			"editTenant": &graphql.Field{
				Type: tenantType,
				Args: graphql.FieldConfigArgument{
					"tenant": &graphql.ArgumentConfig{Type: graphql.NewNonNull(tenantInput)},
				},
				Resolve: r.operation("editTenant", r.editTenant),
			},
			"addUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"user": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInput)},
				},
				Resolve: r.operation("addUser", r.addUser),
			},
			"editUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"user": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInput)},
				},
				Resolve: r.operation("editUser", r.editUser),
			},
			"addProject": &graphql.Field{
				Type: projectType,
				Args: graphql.FieldConfigArgument{
					"project": &graphql.ArgumentConfig{Type: graphql.NewNonNull(projectInput)},
				},
				Resolve: r.operation("addProject", r.addProject),
			},
			"editProject": &graphql.Field{
				Type: projectType,
				Args: graphql.FieldConfigArgument{
					"project": &graphql.ArgumentConfig{Type: graphql.NewNonNull(projectInput)},
				},
				Resolve: r.operation("editProject", r.editProject),
			},
			"addTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"task": &graphql.ArgumentConfig{Type: graphql.NewNonNull(taskInput)},
				},
				Resolve: r.operation("addTask", r.addTask),
			},
			"editTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"task": &graphql.ArgumentConfig{Type: graphql.NewNonNull(taskInput)},
				},
				Resolve: r.operation("editTask", r.editTask),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
