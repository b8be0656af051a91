package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/expensio/expense-backend-go/internal/config"
	"github.com/expensio/expense-backend-go/internal/domain/expense"
	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/rules"
	"github.com/expensio/expense-backend-go/internal/domain/user"
	appHTTP "github.com/expensio/expense-backend-go/internal/handler/http"
	"github.com/expensio/expense-backend-go/internal/pkg/database"
	"github.com/expensio/expense-backend-go/internal/pkg/jwt"
	"github.com/expensio/expense-backend-go/internal/repository/memory"
	"github.com/expensio/expense-backend-go/internal/repository/postgresql"
	authService "github.com/expensio/expense-backend-go/internal/service/auth"
	expenseService "github.com/expensio/expense-backend-go/internal/service/expense"
	roleService "github.com/expensio/expense-backend-go/internal/service/role"
	rulesService "github.com/expensio/expense-backend-go/internal/service/rules"
	userService "github.com/expensio/expense-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var (
		userRepo    user.Repository
		expenseRepo expense.Repository
		rulesRepo   rules.Repository
		roleRepo    role.Repository
	)

	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			fmt.Println("Error connecting to database:", err)
			return
		}
		userRepo = postgresql.NewUserRepository(db)
		expenseRepo = postgresql.NewExpenseRepository(db)
		rulesRepo = postgresql.NewRuleSetRepository(db)
		roleRepo = postgresql.NewRoleRepository(db)
	case "memory":
		userRepo = memory.NewUserRepository()
		expenseRepo = memory.NewExpenseRepository()
		rulesRepo = memory.NewRuleSetRepository()
		roleRepo = memory.NewRoleRepository()
	default:
		log.Fatal("Unsupported store driver: ", cfg.Store.Driver)
	}

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	registry := roleService.NewRegistryService(roleRepo, userRepo, rulesRepo)
	users := userService.NewService(userRepo, registry)
	rulesSvc := rulesService.NewService(rulesRepo, registry)
	expenses := expenseService.NewService(expenseRepo, userRepo, rulesRepo)
	auth := authService.NewService(userRepo, jwtSvc)

	if err := seedAdmin(users, userRepo); err != nil {
		log.Fatal("Failed to seed bootstrap admin: ", err)
	}

	router := appHTTP.NewRouter(
		jwtSvc,
		appHTTP.NewAuthHandler(auth),
		appHTTP.NewUserHandler(users),
		appHTTP.NewRoleHandler(registry),
		appHTTP.NewRulesHandler(rulesSvc),
		appHTTP.NewExpenseHandler(expenses),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates the first ADMIN account from ADMIN_EMAIL/ADMIN_PASSWORD
// when the users collection is empty, so a fresh deployment can be managed.
func seedAdmin(users user.UserService, repo user.Repository) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	ctx := context.Background()
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	_, err = users.Create(ctx, user.CreateUserRequest{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Roles:    []string{role.Admin},
	})
	return err
}
