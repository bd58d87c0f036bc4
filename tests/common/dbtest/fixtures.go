//go:build unit || e2e

package dbtest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"parkflow/internal/domain/tariff"
	"parkflow/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Fixed ids so tests can reference the seeded lanes without lookups.
var (
	EntryLaneID    = uuid.MustParse("00000000-0000-0000-0000-00000000a001")
	ExitLaneID     = uuid.MustParse("00000000-0000-0000-0000-00000000a002")
	ExitBarrierID  = uuid.MustParse("00000000-0000-0000-0000-00000000b001")
	StandardPlanID = uuid.MustParse("00000000-0000-0000-0000-00000000c001")
)

func CreateTestRatePlan(t *testing.T, db DBLike, name string, active bool, rules tariff.RateRules) uuid.UUID {
	t.Helper()

	planID := uuid.New()
	rulesJSON, err := json.Marshal(rules)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = db.Exec(ctx,
		"INSERT INTO rate_plans (id, name, is_active, rules) VALUES ($1, $2, $3, $4)",
		planID, name, active, rulesJSON)
	require.NoError(t, err)

	return planID
}

func CreateTestDiscountRule(t *testing.T, db DBLike, name, ruleType string, value int64, stackable bool, maxApplyCount int) uuid.UUID {
	t.Helper()

	ruleID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO discount_rules (id, name, rule_type, value, stackable, max_apply_count) VALUES ($1, $2, $3, $4, $5, $6)",
		ruleID, name, ruleType, value, stackable, maxApplyCount)
	require.NoError(t, err)

	return ruleID
}

func GrantDiscount(t *testing.T, db DBLike, sessionID, ruleID uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO discount_grants (session_id, rule_id) VALUES ($1, $2)",
		sessionID, ruleID)
	require.NoError(t, err)
}

func CreateTestMembership(t *testing.T, db DBLike, plateNo string, validFrom, validTo time.Time) uuid.UUID {
	t.Helper()

	membershipID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO memberships (id, plate_no, valid_from, valid_to) VALUES ($1, $2, $3, $4)",
		membershipID, plateNo, validFrom, validTo)
	require.NoError(t, err)

	return membershipID
}

func CountBarrierCommands(t *testing.T, db DBLike, sessionID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM barrier_commands WHERE correlation_id = $1", sessionID).Scan(&count)
	require.NoError(t, err)
	return count
}

// inserts basic reference data needed by tests: the two gate lanes, the
// exit barrier, and the active standard rate plan
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO lanes (id, name, direction) VALUES
		    ($1, 'entry-1', 'ENTRY'),
		    ($2, 'exit-1', 'EXIT')
		ON CONFLICT (id) DO NOTHING;
	`, EntryLaneID, ExitLaneID)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO barrier_devices (id, lane_id, name) VALUES ($1, $2, 'exit-barrier-1')
		ON CONFLICT (id) DO NOTHING;
	`, ExitBarrierID, ExitLaneID)
	if err != nil {
		return err
	}

	rulesJSON, err := json.Marshal(builder.NewTariffBuilder().Build())
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO rate_plans (id, name, is_active, rules) VALUES ($1, 'standard', true, $2)
		ON CONFLICT (id) DO NOTHING;
	`, StandardPlanID, rulesJSON)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
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

	return SeedReferenceData(pool)
}
