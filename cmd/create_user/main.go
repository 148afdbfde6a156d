package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/missionboard/missionboard/domain/entity"
	"github.com/missionboard/missionboard/domain/valueobject"
	"github.com/missionboard/missionboard/infrastructure/adapter/postgres"
	"github.com/missionboard/missionboard/infrastructure/config"
	"github.com/missionboard/missionboard/infrastructure/service/password"
)

func main() {
	email := flag.String("email", "", "login email")
	userPassword := flag.String("password", "", "initial password (at least 8 characters)")
	name := flag.String("name", "Administrator", "display name")
	admin := flag.Bool("admin", false, "grant ROLE_ADMIN")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	credentials, err := valueobject.NewCredentials(*email, *userPassword)
	if err != nil {
		log.Fatalf("Invalid credentials: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	hashedPassword, err := password.NewBcryptPasswordService(cfg.BcryptCost).HashPassword(credentials.Password())
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	role := entity.RoleUser
	if *admin {
		role = entity.RoleAdmin
	}
	user := entity.NewUser(uuid.NewString(), credentials.Email(), *name, hashedPassword, role)

	if err := postgres.NewUserRepositoryAdapter(db).Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created\n  id:    %s\n  email: %s\n  name:  %s\n  role:  %s\n", user.ID, user.Email, user.Name, user.Role)
}
