package testutil

// InventoryMigrations returns the DDL statements for the inventory schema.
// Constraint names are load-bearing: the database error mapper translates
// them into API error messages.
func InventoryMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT categories_name_key UNIQUE (name)
		)`,

		`CREATE TABLE IF NOT EXISTS suppliers (
			id UUID PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			email VARCHAR(255),
			phone VARCHAR(50),
			website VARCHAR(500),
			logo_url VARCHAR(500),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			sku VARCHAR(20) NOT NULL,
			name VARCHAR(200) NOT NULL,
			description TEXT,
			image_url VARCHAR(500),
			category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
			quantity_in_stock INTEGER NOT NULL DEFAULT 0,
			expiry_date DATE,
			batch_number VARCHAR(100),
			dosage_form VARCHAR(30) NOT NULL,
			strength VARCHAR(100),
			price NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT products_sku_key UNIQUE (sku),
			CONSTRAINT quantity_non_negative CHECK (quantity_in_stock >= 0),
			CONSTRAINT dosage_form_valid CHECK (dosage_form IN (
				'tablet', 'capsule', 'syrup', 'injection', 'ointment',
				'cream', 'drops', 'inhaler', 'suppository', 'other'
			))
		)`,

		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_expiry ON products(expiry_date)`,

		`CREATE TABLE IF NOT EXISTS supplier_products (
			id UUID PRIMARY KEY,
			supplier_id UUID NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			unit_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
			lead_time_days INTEGER NOT NULL DEFAULT 0,
			last_supplied_at DATE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			minimum_order_qty INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT supplier_products_supplier_id_product_id_key UNIQUE (supplier_id, product_id)
		)`,

		`CREATE TABLE IF NOT EXISTS stock_movements (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			movement_type VARCHAR(20) NOT NULL,
			previous_quantity INTEGER NOT NULL,
			new_quantity INTEGER NOT NULL,
			delta INTEGER NOT NULL,
			reason TEXT,
			performed_by UUID,
			performed_by_name VARCHAR(200),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT movement_type_valid CHECK (movement_type IN (
				'restock', 'sale', 'adjustment', 'return'
			))
		)`,

		`CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			kind VARCHAR(30) NOT NULL,
			title VARCHAR(200) NOT NULL,
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS staff_users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL DEFAULT '',
			first_name VARCHAR(100) NOT NULL DEFAULT '',
			last_name VARCHAR(100) NOT NULL DEFAULT '',
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
}
