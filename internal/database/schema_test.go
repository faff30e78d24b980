package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_categories_table.sql",
		"00002_create_brands_table.sql",
		"00003_create_products_table.sql",
		"00004_create_product_details_tables.sql",
		"00005_create_reviews_table.sql",
		"00006_create_delivery_locations_table.sql",
		"00007_create_carts_tables.sql",
		"00008_create_orders_tables.sql",
		"00009_create_admin_users_table.sql",
		"00010_create_updated_at_trigger.sql",
		"00011_seed_admin_user.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	migrationsDir := "../../migrations"

	expectedTables := map[string]string{
		"categories":             "00001_create_categories_table.sql",
		"brands":                 "00002_create_brands_table.sql",
		"products":               "00003_create_products_table.sql",
		"product_images":         "00004_create_product_details_tables.sql",
		"product_specifications": "00004_create_product_details_tables.sql",
		"product_features":       "00004_create_product_details_tables.sql",
		"reviews":                "00005_create_reviews_table.sql",
		"delivery_locations":     "00006_create_delivery_locations_table.sql",
		"carts":                  "00007_create_carts_tables.sql",
		"cart_items":             "00007_create_carts_tables.sql",
		"orders":                 "00008_create_orders_tables.sql",
		"order_items":            "00008_create_orders_tables.sql",
		"admin_users":            "00009_create_admin_users_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		path := filepath.Join(migrationsDir, migrationFile)
		content, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", migrationFile, err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "CREATE TABLE "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(contentStr, "DROP TABLE "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestProductsTableHasGuardConstraints(t *testing.T) {
	content, err := os.ReadFile("../../migrations/00003_create_products_table.sql")
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	contentStr := string(content)

	// Negative prices and stock are rejected at the database level too.
	for _, constraint := range []string{
		"CHECK (price >= 0)",
		"CHECK (stock >= 0)",
	} {
		if !strings.Contains(contentStr, constraint) {
			t.Errorf("Products table missing constraint: %s", constraint)
		}
	}

	// Category and brand deletion is blocked while products reference them.
	for _, fk := range []string{
		"REFERENCES categories(id) ON DELETE RESTRICT",
		"REFERENCES brands(id) ON DELETE RESTRICT",
	} {
		if !strings.Contains(contentStr, fk) {
			t.Errorf("Products table missing foreign key: %s", fk)
		}
	}
}

func TestCartItemsTableHasUniqueConstraint(t *testing.T) {
	content, err := os.ReadFile("../../migrations/00007_create_carts_tables.sql")
	if err != nil {
		t.Fatalf("Failed to read carts migration: %v", err)
	}

	contentStr := string(content)

	// One line per (cart, product); the add operation upserts against this.
	if !strings.Contains(contentStr, "UNIQUE (cart_id, product_id)") {
		t.Error("Cart items table missing unique constraint on (cart_id, product_id)")
	}
	if !strings.Contains(contentStr, "session_id VARCHAR(255) NOT NULL UNIQUE") {
		t.Error("Carts table missing unique session_id")
	}
}

func TestReviewsTableHasRatingConstraint(t *testing.T) {
	content, err := os.ReadFile("../../migrations/00005_create_reviews_table.sql")
	if err != nil {
		t.Fatalf("Failed to read reviews migration: %v", err)
	}

	if !strings.Contains(string(content), "CHECK (rating BETWEEN 1 AND 5)") {
		t.Error("Reviews table missing rating range constraint")
	}
}

func TestOrderItemsKeepSnapshotColumns(t *testing.T) {
	content, err := os.ReadFile("../../migrations/00008_create_orders_tables.sql")
	if err != nil {
		t.Fatalf("Failed to read orders migration: %v", err)
	}

	contentStr := string(content)

	for _, column := range []string{
		"product_name VARCHAR(255) NOT NULL",
		"unit_price NUMERIC(12,2) NOT NULL",
	} {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Order items table missing snapshot column: %s", column)
		}
	}

	// Products referenced by orders cannot be hard-deleted.
	if !strings.Contains(contentStr, "REFERENCES products(id) ON DELETE RESTRICT") {
		t.Error("Order items table must restrict product deletion")
	}
}
