package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. Expects a MySQL
// instance on localhost:3306 with a database named 'storefront_test';
// skips the test when none is available.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/storefront_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderStatusHistory", "OrderItems", "Orders", "Products"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the storefront schema used by the tests.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		specifications TEXT,
		price DECIMAL(12,2) NOT NULL,
		discount DECIMAL(5,2) NOT NULL DEFAULT 0.00,
		quantity INT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'AVAILABLE',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderNumber VARCHAR(16) NOT NULL,
		customerId INT UNSIGNED NOT NULL,
		fullName VARCHAR(100) NOT NULL,
		phone VARCHAR(30) NOT NULL,
		province VARCHAR(100) NOT NULL,
		district VARCHAR(100) NOT NULL,
		commune VARCHAR(100) NOT NULL,
		detailAddress VARCHAR(255) NOT NULL,
		totalAmount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		paymentMethod VARCHAR(20) NOT NULL,
		paymentStatus VARCHAR(10) NOT NULL DEFAULT 'UNPAID',
		notes TEXT,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_order_number (orderNumber),
		INDEX idx_customer (customerId),
		INDEX idx_status (status)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		productId INT UNSIGNED NOT NULL,
		productName VARCHAR(255) NOT NULL,
		specifications TEXT,
		quantity INT NOT NULL,
		price DECIMAL(12,2) NOT NULL,
		discount DECIMAL(5,2) NOT NULL DEFAULT 0.00,
		INDEX idx_order (orderId)
	)`

	createHistoryTable := `
	CREATE TABLE IF NOT EXISTS OrderStatusHistory (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		status VARCHAR(20) NOT NULL,
		updatedBy INT UNSIGNED NOT NULL,
		updatedAt DATETIME NOT NULL,
		note TEXT,
		INDEX idx_order (orderId)
	)`

	for _, stmt := range []string{createProductsTable, createOrdersTable, createOrderItemsTable, createHistoryTable} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create test table: %v", err)
		}
	}
}
