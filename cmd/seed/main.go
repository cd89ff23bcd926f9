// seed carga datos de desarrollo: un usuario admin y productos de ejemplo.
//
// Uso: go run ./cmd/seed
// Idempotente: si el email o el SKU ya existen, los salta.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tienda-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "conexión a PostgreSQL:", err)
		os.Exit(1)
	}
	defer pool.Close()

	now := time.Now()

	userRepo := postgres.NewUserRepository(pool)
	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash de password:", err)
		os.Exit(1)
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		Email:        "admin@tienda.local",
		PasswordHash: string(hash),
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch err := userRepo.Create(admin); err {
	case nil:
		fmt.Println("usuario admin creado:", admin.Email)
	case domain.ErrEmailAlreadyExists:
		fmt.Println("usuario admin ya existe, saltando")
	default:
		fmt.Fprintln(os.Stderr, "crear usuario admin:", err)
		os.Exit(1)
	}

	productRepo := postgres.NewProductRepository(pool)
	products := []*entity.Product{
		{SKU: "LECHE-1L", Name: "Leche entera 1L", MinStock: 12, CostPrice: decimal.NewFromInt(3200), Price: decimal.NewFromInt(4500)},
		{SKU: "PAN-500G", Name: "Pan tajado 500g", MinStock: 8, CostPrice: decimal.NewFromInt(4100), Price: decimal.NewFromInt(6200)},
		{SKU: "ARROZ-1K", Name: "Arroz blanco 1kg", MinStock: 20, CostPrice: decimal.NewFromInt(3800), Price: decimal.NewFromInt(5400)},
	}
	for _, p := range products {
		p.ID = uuid.New().String()
		p.CreatedAt = now
		p.UpdatedAt = now
		switch err := productRepo.Create(p); err {
		case nil:
			fmt.Println("producto creado:", p.SKU)
		case domain.ErrConflict:
			fmt.Println("producto ya existe, saltando:", p.SKU)
		default:
			fmt.Fprintln(os.Stderr, "crear producto:", err)
			os.Exit(1)
		}
	}

	fmt.Println("seed completado")
}
