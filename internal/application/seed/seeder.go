// Package seed carga datos iniciales: superadmin, catálogo de demostración e importación CSV.
// Todo pasa por los casos de uso, de modo que el stock inicial queda registrado como entradas
// del libro y las validaciones del catálogo se aplican igual que en la API.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/ledger"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// Seeder agrupa los casos de uso necesarios para sembrar datos.
type Seeder struct {
	users    repository.UserRepository
	products *usecase.ProductUseCase
	ledger   *ledger.StockLedger
	log      *logger.Logger
}

// NewSeeder construye el sembrador.
func NewSeeder(users repository.UserRepository, products *usecase.ProductUseCase, stockLedger *ledger.StockLedger, log *logger.Logger) *Seeder {
	return &Seeder{users: users, products: products, ledger: stockLedger, log: log.Component("seed")}
}

// EnsureSuperadmin crea el superadmin si no existe un usuario con ese username.
// Devuelve el usuario (existente o nuevo) y si fue creado.
func (s *Seeder) EnsureSuperadmin(ctx context.Context, username, email, password string) (*entity.User, bool, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, fmt.Errorf("buscar usuario: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}
	if password == "" {
		return nil, false, domain.NewValidationError("password", "requerido para crear el superadmin")
	}
	hash, err := usecase.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleSuperAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("crear superadmin: %w", err)
	}
	s.log.Info().Str("username", username).Msg("superadmin creado")
	return user, true, nil
}

// ProductRow fila de catálogo a sembrar con su stock inicial.
type ProductRow struct {
	SKU          string
	Name         string
	Category     string
	Description  string
	Unit         string
	Price        decimal.Decimal
	MinStock     int64
	InitialStock int64
}

// Result resumen de una carga.
type Result struct {
	Created int
	Skipped int // SKU ya existente
}

// Products crea cada producto y registra su stock inicial como entrada con referencia SEED-<SKU>.
// Los SKU ya existentes se omiten, por lo que repetir la carga no duplica stock.
func (s *Seeder) Products(ctx context.Context, actor dto.Actor, rows []ProductRow) (Result, error) {
	var res Result
	today := dto.Date{Time: time.Now().UTC().Truncate(24 * time.Hour)}
	for i, row := range rows {
		p, err := s.products.Create(ctx, actor, dto.CreateProductRequest{
			SKU:         row.SKU,
			Name:        row.Name,
			Category:    row.Category,
			Description: row.Description,
			Price:       row.Price,
			Unit:        row.Unit,
			MinStock:    row.MinStock,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("fila %d (%s): %w", i+1, row.SKU, err)
		}
		if row.InitialStock > 0 {
			_, err := s.ledger.RecordIn(ctx, actor, dto.InTransactionRequest{
				ProductID:       p.ID,
				Quantity:        row.InitialStock,
				Reference:       "SEED-" + p.SKU,
				Notes:           "stock inicial",
				TransactionDate: today,
			})
			if err != nil {
				return res, fmt.Errorf("stock inicial %s: %w", p.SKU, err)
			}
		}
		res.Created++
	}
	s.log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("catálogo cargado")
	return res, nil
}

// Demo carga el catálogo de demostración.
func (s *Seeder) Demo(ctx context.Context, actor dto.Actor) (Result, error) {
	return s.Products(ctx, actor, DemoCatalog())
}

// DemoCatalog catálogo de ejemplo con productos en los tres estados de stock.
func DemoCatalog() []ProductRow {
	return []ProductRow{
		{SKU: "LAPTOP-HP-001", Name: "HP Pavilion 15", Category: "Electronics", Unit: "pcs", Price: decimal.NewFromInt(7500000), MinStock: 5, InitialStock: 12},
		{SKU: "MOUSE-LOG-001", Name: "Logitech MX Master 3", Category: "Accessories", Unit: "pcs", Price: decimal.NewFromInt(850000), MinStock: 20, InitialStock: 8},
		{SKU: "KEYBOARD-MECH-001", Name: "Keychron K2 Pro", Category: "Accessories", Unit: "pcs", Price: decimal.NewFromInt(1200000), MinStock: 15, InitialStock: 0},
		{SKU: "MONITOR-DELL-001", Name: "Dell UltraSharp 27 4K", Category: "Electronics", Unit: "pcs", Price: decimal.NewFromInt(4500000), MinStock: 3, InitialStock: 6},
		{SKU: "HEADPHONE-SONY-001", Name: "Sony WH-1000XM5", Category: "Accessories", Unit: "pcs", Price: decimal.NewFromInt(2800000), MinStock: 10, InitialStock: 25},
		{SKU: "CABLE-HDMI-001", Name: "HDMI 2.1 Cable 2m", Category: "Cables", Unit: "pcs", Price: decimal.NewFromInt(150000), MinStock: 50, InitialStock: 120},
		{SKU: "POWERBANK-ANKER-001", Name: "Anker PowerCore 26800mAh", Category: "Accessories", Unit: "pcs", Price: decimal.NewFromInt(650000), MinStock: 15, InitialStock: 42},
		{SKU: "WEBCAM-LOGITECH-001", Name: "Logitech StreamCam", Category: "Electronics", Unit: "pcs", Price: decimal.NewFromInt(1500000), MinStock: 5, InitialStock: 3},
	}
}

// csvHeader columnas esperadas en ReadCSV (description es opcional).
var csvHeader = []string{"sku", "name", "category", "unit", "price", "min_stock", "initial_stock"}

// ReadCSV lee filas de catálogo. La primera línea es la cabecera; el orden de columnas es libre.
// r debe entregar UTF-8 (el llamador decodifica otros charsets).
func ReadCSV(r io.Reader) ([]ProductRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range csvHeader {
		if _, ok := col[name]; !ok {
			return nil, domain.NewValidationError(name, "columna requerida en la cabecera")
		}
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []ProductRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		price, err := decimal.NewFromString(field(rec, "price"))
		if err != nil {
			return nil, domain.NewValidationError("price", fmt.Sprintf("línea %d: precio inválido", line))
		}
		minStock, err := strconv.ParseInt(field(rec, "min_stock"), 10, 64)
		if err != nil {
			return nil, domain.NewValidationError("min_stock", fmt.Sprintf("línea %d: entero inválido", line))
		}
		initial, err := strconv.ParseInt(field(rec, "initial_stock"), 10, 64)
		if err != nil || initial < 0 {
			return nil, domain.NewValidationError("initial_stock", fmt.Sprintf("línea %d: entero no negativo", line))
		}
		rows = append(rows, ProductRow{
			SKU:          field(rec, "sku"),
			Name:         field(rec, "name"),
			Category:     field(rec, "category"),
			Description:  field(rec, "description"),
			Unit:         field(rec, "unit"),
			Price:        price,
			MinStock:     minStock,
			InitialStock: initial,
		})
	}
	return rows, nil
}
