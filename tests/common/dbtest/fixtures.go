//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123", shared by every fixture user so logins work
// without hashing on each insert.
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (email) WHERE is_active = TRUE DO NOTHING`,
		userID, email, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1 AND is_active = TRUE", email).Scan(&userID)
	}

	return userID
}

func CreateTestProduct(t *testing.T, db DBLike, name string, price decimal.Decimal) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO products (id, name, description, price, category, active)
		VALUES ($1, $2, '', $3, 'Test', TRUE)`,
		productID, name, price)
	require.NoError(t, err)

	return productID
}

// CreateTestCoupon inserts a coupon with a single whole-order percentage rule.
func CreateTestCoupon(t *testing.T, db DBLike, code string, percent decimal.Decimal) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO coupons (id, code) VALUES ($1, $2)`,
		couponID, code)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO coupon_rules (id, coupon_id, name, value, flat_rate, position)
		VALUES ($1, $2, 'Whole Order', $3, FALSE, 0)`,
		uuid.New(), couponID, percent)
	require.NoError(t, err)

	return couponID
}

// CreateShippingCoupon inserts a coupon whose only rule discounts the
// shipping fee by the given percentage.
func CreateShippingCoupon(t *testing.T, db DBLike, code string, percent decimal.Decimal) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO coupons (id, code) VALUES ($1, $2)`,
		couponID, code)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO coupon_rules (id, coupon_id, name, value, flat_rate, position)
		VALUES ($1, $2, 'Shipping', $3, FALSE, 0)`,
		uuid.New(), couponID, percent)
	require.NoError(t, err)

	return couponID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
