package migrate

import (
	"context"

	"campus-market/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto for gen_random_uuid, pg_trgm for title search
	CreateChecks           bool
	CreateIndexes          bool
	CreateFKsViaSQL        bool
	CreateUpdatedAtTrigger bool
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

// MigrateMarketDB creates the marketplace schema: catalog, addresses, order
// ledger, reviews and favorites.
func MigrateMarketDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("starting marketplace schema migration")
	db = db.WithContext(ctx)

	if opt.CreateExtensions {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("enabling pgcrypto failed", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
			log.Error("enabling pg_trgm failed", zap.Error(err))
			return err
		}
	}

	if err := db.AutoMigrate(
		&models.Item{},
		&models.Address{},
		&models.Order{},
		&models.OrderLine{},
		&models.Review{},
		&models.Favorite{},
	); err != nil {
		log.Error("table creation failed", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_items_updated ON items;
CREATE TRIGGER trg_items_updated
BEFORE UPDATE ON items
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_addresses_updated ON addresses;
CREATE TRIGGER trg_addresses_updated
BEFORE UPDATE ON addresses
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("updated_at trigger creation failed", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		checks := []string{
			`ALTER TABLE items
  DROP CONSTRAINT IF EXISTS chk_items_stock_non_negative;
ALTER TABLE items
  ADD CONSTRAINT chk_items_stock_non_negative
  CHECK (stock >= 0);`,
			`ALTER TABLE items
  DROP CONSTRAINT IF EXISTS chk_items_price_positive;
ALTER TABLE items
  ADD CONSTRAINT chk_items_price_positive
  CHECK (price_cents > 0);`,
			`ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('pending','paid','shipped','completed','cancelled'));`,
			`ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_total_non_negative;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_total_non_negative
  CHECK (total_cents >= 0);`,
			`ALTER TABLE order_lines
  DROP CONSTRAINT IF EXISTS chk_order_lines_quantity_gt_zero;
ALTER TABLE order_lines
  ADD CONSTRAINT chk_order_lines_quantity_gt_zero
  CHECK (quantity > 0);`,
			`ALTER TABLE order_lines
  DROP CONSTRAINT IF EXISTS chk_order_lines_prices_non_negative;
ALTER TABLE order_lines
  ADD CONSTRAINT chk_order_lines_prices_non_negative
  CHECK (unit_price_cents >= 0 AND line_total_cents >= 0);`,
			`ALTER TABLE reviews
  DROP CONSTRAINT IF EXISTS chk_reviews_rating_range;
ALTER TABLE reviews
  ADD CONSTRAINT chk_reviews_rating_range
  CHECK (rating BETWEEN 1 AND 5);`,
		}
		for _, sql := range checks {
			if err := db.Exec(sql).Error; err != nil {
				log.Error("check constraint creation failed", zap.Error(err))
				return err
			}
		}
	}

	if opt.CreateIndexes {
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_order_lines_order_item
ON order_lines (order_id, item_id);`,
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_favorites_user_item
ON favorites (user_id, item_id);`,
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_reviews_order_item_user
ON reviews (order_id, item_id, reviewer_id);`,
			`CREATE INDEX IF NOT EXISTS ix_orders_buyer_created
ON orders (buyer_id, created_at DESC);`,
			`CREATE INDEX IF NOT EXISTS ix_orders_seller_created
ON orders (seller_id, created_at DESC);`,
			`CREATE INDEX IF NOT EXISTS ix_orders_status_created
ON orders (status, created_at DESC);`,
			`CREATE INDEX IF NOT EXISTS ix_items_title_trgm
ON items USING gin (lower(title) gin_trgm_ops);`,
		}
		for _, sql := range indexes {
			if err := db.Exec(sql).Error; err != nil {
				log.Error("index creation failed", zap.Error(err))
				return err
			}
		}
	}

	if opt.CreateFKsViaSQL {
		fks := []string{
			`ALTER TABLE order_lines
  DROP CONSTRAINT IF EXISTS fk_order_lines_order,
  ADD CONSTRAINT fk_order_lines_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;`,
			`ALTER TABLE order_lines
  DROP CONSTRAINT IF EXISTS fk_order_lines_item,
  ADD CONSTRAINT fk_order_lines_item
    FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE RESTRICT;`,
			`ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_address,
  ADD CONSTRAINT fk_orders_address
    FOREIGN KEY (address_id) REFERENCES addresses(id) ON DELETE SET NULL;`,
			`ALTER TABLE reviews
  DROP CONSTRAINT IF EXISTS fk_reviews_item,
  ADD CONSTRAINT fk_reviews_item
    FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE;`,
			`ALTER TABLE favorites
  DROP CONSTRAINT IF EXISTS fk_favorites_item,
  ADD CONSTRAINT fk_favorites_item
    FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE;`,
		}
		for _, sql := range fks {
			if err := db.Exec(sql).Error; err != nil {
				log.Error("foreign key creation failed", zap.Error(err))
				return err
			}
		}
	}

	log.Info("marketplace schema migration finished")
	return nil
}
