package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"energy-cost-backend/config"
	"energy-cost-backend/internal/appliance"
	"energy-cost-backend/internal/db"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// newSQLiteDB opens a migrated in-memory database private to the test.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

// storeFactories runs the same contract against every backend.
func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"gorm": func(t *testing.T) Store {
			return NewGormStore(newSQLiteDB(t))
		},
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "data", "energy.json"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_GetPut(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, "k", []byte(`[1,2]`)))
			got, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[1,2]`, string(got))

			require.NoError(t, s.Put(ctx, "k", []byte(`[]`)))
			got, _, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got), "put overwrites")

			require.NoError(t, s.Put(ctx, "other", []byte("true")))
			got, _, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got), "keys are independent")

			assert.NoError(t, s.Close())
		})
	}
}

func TestApplianceRecords_RoundTrip(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			records := NewApplianceRecords(newStore(t))

			loaded, err := records.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, loaded)

			fridge := appliance.New("a1", "Fridge", "cocina", 150, 24, 30, 0.12)
			pump := appliance.New("a2", "Pump", "garage", 500, 2, 10, 0.1)
			require.NoError(t, records.Save(ctx, []appliance.Snapshot{fridge.Serialize(), pump.Serialize()}))

			loaded, err = records.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []appliance.Record{fridge.Record(), pump.Record()}, loaded)

			require.NoError(t, records.Save(ctx, nil))
			loaded, err = records.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, loaded)
			assert.NotNil(t, loaded, "an empty collection is stored as []")
		})
	}
}

func TestApplianceRecords_Format(t *testing.T) {
	ctx := context.Background()
	kv, err := NewFileStore(filepath.Join(t.TempDir(), "energy.json"))
	require.NoError(t, err)

	a := appliance.New("a1", "Fridge", "cocina", 150, 24, 30, 0.12)
	require.NoError(t, NewApplianceRecords(kv).Save(ctx, []appliance.Snapshot{a.Serialize()}))

	raw, ok, err := kv.Get(ctx, AppliancesKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{
		"id": "a1", "name": "Fridge", "categoryId": "cocina",
		"powerWatts": 150, "hoursPerDay": 24, "daysPerMonth": 30, "tariffPerKWh": 0.12,
		"monthlyConsumptionKWh": 108, "monthlyCostOfMoney": 12.959999999999999
	}]`, string(raw))
}

func TestApplianceRecords_IgnoresStoredDerivedValues(t *testing.T) {
	ctx := context.Background()
	kv := NewGormStore(newSQLiteDB(t))
	require.NoError(t, kv.Put(ctx, AppliancesKey, []byte(`[{"id":"x","name":"Lamp","categoryId":"iluminacion",
		"powerWatts":9,"hoursPerDay":5,"daysPerMonth":30,"tariffPerKWh":0.12,
		"monthlyConsumptionKWh":12345,"monthlyCostOfMoney":999}]`)))

	loaded, err := NewApplianceRecords(kv).Load(ctx)
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	a := appliance.FromRecord(loaded[0])
	assert.InDelta(t, 1.35, a.MonthlyConsumption(), 1e-9)
}

func TestApplianceRecords_Corrupt(t *testing.T) {
	ctx := context.Background()

	t.Run("undecodable value", func(t *testing.T) {
		kv := NewGormStore(newSQLiteDB(t))
		require.NoError(t, kv.Put(ctx, AppliancesKey, []byte(`{not json`)))

		_, err := NewApplianceRecords(kv).Load(ctx)
		assert.ErrorIs(t, err, appliance.ErrCorruptSnapshot)
	})

	t.Run("corrupt store file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "energy.json")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
		kv, err := NewFileStore(path)
		require.NoError(t, err)

		_, err = NewApplianceRecords(kv).Load(ctx)
		assert.ErrorIs(t, err, appliance.ErrCorruptSnapshot)

		// The next write replaces the corrupt file.
		require.NoError(t, NewApplianceRecords(kv).Save(ctx, []appliance.Snapshot{}))
		loaded, err := NewApplianceRecords(kv).Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("null elements", func(t *testing.T) {
		for _, raw := range []string{`[null]`, `[{"id":"a1","name":"Lamp"},null]`, `null`} {
			kv := NewGormStore(newSQLiteDB(t))
			require.NoError(t, kv.Put(ctx, AppliancesKey, []byte(raw)))

			_, err := NewApplianceRecords(kv).Load(ctx)
			assert.ErrorIs(t, err, appliance.ErrCorruptSnapshot, raw)

			r := appliance.NewRegistry(NewApplianceRecords(kv))
			require.NoError(t, r.Restore(ctx))
			assert.Zero(t, r.Len(), raw)
		}
	})

	t.Run("registry recovers to empty", func(t *testing.T) {
		kv := NewGormStore(newSQLiteDB(t))
		require.NoError(t, kv.Put(ctx, AppliancesKey, []byte(`[{"id": 1}]`)))

		r := appliance.NewRegistry(NewApplianceRecords(kv))
		require.NoError(t, r.Restore(ctx))
		assert.Zero(t, r.Len())
	})
}

func TestApplianceRecords_NonFiniteMetrics(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := newStore(t)

			r := appliance.NewRegistry(NewApplianceRecords(kv))
			huge, err := r.Add(ctx, appliance.Fields{Name: "Huge", CategoryID: "otros", PowerWatts: 1e200, HoursPerDay: 1e200, DaysPerMonth: 1, TariffPerKWh: 1})
			require.NoError(t, err)
			_, err = r.Add(ctx, appliance.Fields{Name: "Idle", CategoryID: "otros", PowerWatts: 1e200, HoursPerDay: 1e200, DaysPerMonth: 1, TariffPerKWh: 0})
			require.NoError(t, err)
			_, err = r.Add(ctx, appliance.Fields{Name: "Fridge", CategoryID: "cocina", PowerWatts: 150, HoursPerDay: 24, DaysPerMonth: 30, TariffPerKWh: 0.12})
			require.NoError(t, err)

			raw, ok, err := kv.Get(ctx, AppliancesKey)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Contains(t, string(raw), `"monthlyConsumptionKWh":null`)

			restored := appliance.NewRegistry(NewApplianceRecords(kv))
			require.NoError(t, restored.Restore(ctx))
			assert.Equal(t, r.List(), restored.List())

			got, ok := restored.Find(huge.ID)
			require.True(t, ok)
			assert.Equal(t, 1e200, got.PowerWatts)
		})
	}
}

func TestPreferences_DarkMode(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := newStore(t)
			prefs := NewPreferences(kv)

			on, err := prefs.DarkMode(ctx)
			require.NoError(t, err)
			assert.False(t, on)

			require.NoError(t, prefs.SetDarkMode(ctx, true))
			on, err = prefs.DarkMode(ctx)
			require.NoError(t, err)
			assert.True(t, on)

			raw, _, _ := kv.Get(ctx, DarkModeKey)
			assert.Equal(t, "true", string(raw))

			require.NoError(t, prefs.SetDarkMode(ctx, false))
			on, err = prefs.DarkMode(ctx)
			require.NoError(t, err)
			assert.False(t, on)
		})
	}
}

func TestGormStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("read failure is returned", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "kv_entries"`)).
			WillReturnError(errors.New("connection reset"))

		_, _, err := s.Get(ctx, AppliancesKey)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("read hit", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "kv_entries" WHERE "kv_entries"."key" = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
				AddRow(AppliancesKey, "[]", time.Now()))

		got, ok, err := s.Get(ctx, AppliancesKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "[]", string(got))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("write failure rolls back", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "kv_entries"`)).
			WithArgs(AppliancesKey, "[]", Any{}).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := s.Put(ctx, AppliancesKey, []byte("[]"))
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("upsert", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "kv_entries"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT ("key") DO UPDATE`)).
			WithArgs(DarkModeKey, "true", Any{}).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, NewPreferences(s).SetDarkMode(ctx, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOpen(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		s, err := Open(&config.StorageConfig{Driver: "file", Path: filepath.Join(t.TempDir(), "e.json")})
		require.NoError(t, err)
		assert.Nil(t, DB(s))
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(&config.StorageConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "e.db")})
		require.NoError(t, err)
		defer s.Close()
		assert.NotNil(t, DB(s))
	})
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
