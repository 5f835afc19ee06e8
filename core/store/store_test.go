package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"slot-aggregator/core/database"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func entity(id string, slots ...string) provider.Entity {
	e := provider.Entity{
		ID:         id,
		Name:       "Dr. " + id,
		Address:    "Hauptstraße 1, 1010 Wien",
		Speciality: provider.StringList{"GP"},
		Insurance:  []string{"OEGK"},
		Slots:      []provider.Slot{},
		BookingURL: "https://example.org/" + id,
		ShowTime:   true,
	}
	for _, s := range slots {
		t, _ := time.Parse(time.RFC3339, s)
		e.Slots = append(e.Slots, provider.At(t))
	}
	return e
}

func jsonOf(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// contract runs the behaviour every backend must share.
func contract(t *testing.T, s Store) {
	ctx := context.Background()

	assert.Empty(t, s.Load(ctx))

	require.NoError(t, s.Upsert(ctx, entity("a", "2026-03-10T08:00:00+01:00")))
	require.NoError(t, s.Upsert(ctx, entity("b", "2026-03-11T09:00:00Z")))
	require.NoError(t, s.Upsert(ctx, entity("c")))

	// Upsert is a whole-record replace.
	require.NoError(t, s.Upsert(ctx, entity("c", "2026-03-12T10:00:00+01:00")))

	before := s.Load(ctx)
	require.Len(t, before, 3)
	require.Len(t, before["c"].Slots, 1)

	removed, err := s.RemoveStale(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, removed)

	after := s.Load(ctx)
	require.Len(t, after, 2)
	assert.Equal(t, jsonOf(t, before["a"]), jsonOf(t, after["a"]))
	assert.Equal(t, jsonOf(t, before["b"]), jsonOf(t, after["b"]))
	assert.Equal(t, "2026-03-10T08:00:00+01:00", provider.FormatSlot(after["a"].Slots[0].Start))

	removed, err = s.RemoveStale(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "appointments.json")
	contract(t, NewFileStore(path, zap.NewNop()))

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_CorruptReadsEmptyAndHeals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path, zap.NewNop())
	assert.Empty(t, s.Load(context.Background()))

	require.NoError(t, s.Upsert(context.Background(), entity("a")))
	assert.Len(t, s.Load(context.Background()), 1)
}

func TestFileStore_SkipsUndecodableRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	doc := `{"a": {"id":"a","name":"A","slots":["2026-03-10T08:00:00Z"]}, "b": {"id":"b","slots":[42]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got := NewFileStore(path, zap.NewNop()).Load(context.Background())
	assert.Len(t, got, 1)
	assert.Contains(t, got, "a")
}

func TestFileStore_PersistedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	s := NewFileStore(path, zap.NewNop())
	require.NoError(t, s.Upsert(context.Background(), entity("a", "2026-03-10T07:00:00Z")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	rec := doc["a"]
	assert.Equal(t, "a", rec["id"])
	assert.Equal(t, "GP", rec["speciality"])
	assert.Equal(t, []any{"2026-03-10T07:00:00Z"}, rec["slots"])
	assert.Equal(t, true, rec["show_time"])
	assert.NotContains(t, rec, "group")
}

func TestFileStore_SlotsPersistAsStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	doc := `{"t": {"id":"t","name":"Praxis T (Vorsorge)","slots":[{"start":"2026-04-07T09:40:00+02:00","service":"Vorsorge"},"2026-04-07T10:00:00+02:00"]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s := NewFileStore(path, zap.NewNop())
	loaded := s.Load(context.Background())
	require.Contains(t, loaded, "t")
	require.NoError(t, s.Upsert(context.Background(), loaded["t"]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, []any{"2026-04-07T09:40:00+02:00", "2026-04-07T10:00:00+02:00"}, out["t"]["slots"])
}

func TestFileStore_ConcurrentUpserts(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "appointments.json"), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Upsert(context.Background(), entity(fmt.Sprintf("p%02d", i))))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Load(context.Background()), 20)
}

// memoryObject backs the storage mock with a byte slice.
type memoryObject struct {
	mu   sync.Mutex
	data []byte
}

func setupObjectMock(obj *memoryObject) *mocks.Client {
	m := new(mocks.Client)
	m.On("GetObject", mock.Anything, "bucket", "appointments.json", mock.Anything).
		Return(func(ctx context.Context, bucket, name string, opts minio.GetObjectOptions) io.ReadCloser {
			obj.mu.Lock()
			defer obj.mu.Unlock()
			return io.NopCloser(bytes.NewReader(append([]byte(nil), obj.data...)))
		}, nil)
	m.On("PutObject", mock.Anything, "bucket", "appointments.json", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(3).(io.Reader))
			obj.mu.Lock()
			obj.data = data
			obj.mu.Unlock()
		}).
		Return(minio.UploadInfo{}, nil)
	return m
}

func TestObjectStore(t *testing.T) {
	obj := &memoryObject{}
	contract(t, NewObjectStore(setupObjectMock(obj), "bucket", "appointments.json", zap.NewNop()))
}

func TestObjectStore_GetFailsReadsEmpty(t *testing.T) {
	m := new(mocks.Client)
	m.On("GetObject", mock.Anything, "bucket", "appointments.json", mock.Anything).Return(nil, assert.AnError)

	s := NewObjectStore(m, "bucket", "appointments.json", zap.NewNop())
	assert.Empty(t, s.Load(context.Background()))
}

func TestSQLStore(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	s, err := NewSQLStore(db, zap.NewNop())
	require.NoError(t, err)
	contract(t, s)
}

func TestSQLStore_SkipsUndecodableRow(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	s, err := NewSQLStore(db, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Upsert(context.Background(), entity("good")))
	require.NoError(t, db.Exec(
		"INSERT INTO entities (id, name, address, speciality, insurance, slots, booking_url, show_time, grp, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		"bad", "Bad", "", `"GP"`, `[]`, "{broken", "", true, "", time.Now(),
	).Error)

	got := s.Load(context.Background())
	assert.Len(t, got, 1)
	assert.Contains(t, got, "good")
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestSQLStore_QueryErrorReadsEmpty(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	s := &SQLStore{db: db, logger: zap.NewNop()}

	sqlMock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	assert.Empty(t, s.Load(context.Background()))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSQLStore_RemoveStaleListError(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	s := &SQLStore{db: db, logger: zap.NewNop()}

	sqlMock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	_, err := s.RemoveStale(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	s, err := New(Config{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "x.json")}, Backends{})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = New(Config{Driver: DriverSQL}, Backends{})
	assert.Error(t, err)

	_, err = New(Config{Driver: DriverS3}, Backends{})
	assert.Error(t, err)

	_, err = New(Config{Driver: "redis"}, Backends{})
	assert.Error(t, err)

	s, err = New(Config{Driver: DriverS3, Object: "o.json"}, Backends{Client: new(mocks.Client), Bucket: "b"})
	require.NoError(t, err)
	assert.IsType(t, &ObjectStore{}, s)
}
