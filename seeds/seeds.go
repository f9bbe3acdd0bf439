package seeds

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	log.Println("[seed] truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE product_categories, products, categories, stores RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Println("[seed] inserting store")
	if err := seedStore(ctx, pool); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	log.Println("[seed] inserting categories")
	if err := seedCategories(ctx, pool); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	log.Println("[seed] inserting products")
	if err := seedProducts(ctx, pool, rng, 60); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	log.Println("[seed] seeding complete")
	return nil
}

func seedStore(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx,
		`INSERT INTO stores (code, name) VALUES ($1, $2)`,
		"default", "Default Store")
	return err
}

// Category tree with ids assigned by insertion order:
// 1 Electronics, 2 Phones, 3 Laptops, 4 Apparel, 5 Shoes, 6 Jackets.
var categoryTree = []struct {
	name     string
	parentID int64
}{
	{"Electronics", 0},
	{"Phones", 1},
	{"Laptops", 1},
	{"Apparel", 0},
	{"Shoes", 4},
	{"Jackets", 4},
}

// leafCategories maps a leaf id to its ancestor chain (for anchor listings).
var leafCategories = map[int64][]int64{
	2: {1},
	3: {1},
	5: {4},
	6: {4},
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool) error {
	rows := []string{}
	args := []any{}

	for _, c := range categoryTree {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, int64(1), c.parentID, c.name)
	}

	query := "INSERT INTO categories (store_id, parent_id, name) VALUES " + strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	brands := []string{"Acme", "Nordic", "Polar", "Atlas", "Vertex"}
	names := map[int64][]string{
		2: {"Pocket Phone", "Fold Phone", "Ultra Phone", "Mini Phone"},
		3: {"Air Laptop", "Pro Laptop", "Gaming Laptop", "Slim Laptop"},
		5: {"Trail Shoe", "Running Shoe", "City Sneaker", "Hiking Boot"},
		6: {"Rain Jacket", "Down Jacket", "Windbreaker", "Fleece Jacket"},
	}
	leaves := []int64{2, 3, 5, 6}

	productRows := []string{}
	productArgs := []any{}
	assignRows := []string{}
	assignArgs := []any{}

	for i := 0; i < n; i++ {
		leaf := leaves[i%len(leaves)]
		nameList := names[leaf]
		name := fmt.Sprintf("%s %d", nameList[i%len(nameList)], i/len(nameList)+1)
		brand := brands[rng.Intn(len(brands))]
		price := float64(rng.Intn(95000)+500) / 100
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(365))

		base := len(productArgs)
		productRows = append(productRows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		productArgs = append(productArgs, int64(1), fmt.Sprintf("SKU-%04d", i+1), name, brand, price, createdAt)

		productID := int64(i + 1)
		for _, categoryID := range append([]int64{leaf}, leafCategories[leaf]...) {
			abase := len(assignArgs)
			assignRows = append(assignRows, fmt.Sprintf("($%d, $%d)", abase+1, abase+2))
			assignArgs = append(assignArgs, productID, categoryID)
		}
	}

	if len(productRows) == 0 {
		return nil
	}

	query := "INSERT INTO products (store_id, sku, name, brand, price, created_at) VALUES " +
		strings.Join(productRows, ", ")
	if _, err := pool.Exec(ctx, query, productArgs...); err != nil {
		return err
	}

	query = "INSERT INTO product_categories (product_id, category_id) VALUES " +
		strings.Join(assignRows, ", ")
	_, err := pool.Exec(ctx, query, assignArgs...)
	return err
}
