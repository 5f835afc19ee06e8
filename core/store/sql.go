package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"slot-aggregator/core/database"
	"slot-aggregator/core/provider"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entitiesTable = "entities"

// entityRow is one persisted entity. List-valued fields are stored as JSON text and
// decoded per row, so one bad row does not hide the others.
type entityRow struct {
	ID         string `gorm:"primaryKey;size:191"`
	Name       string `gorm:"size:255"`
	Address    string `gorm:"size:512"`
	Speciality string `gorm:"type:text"`
	Insurance  string `gorm:"type:text"`
	Slots      string `gorm:"type:text"`
	BookingURL string `gorm:"size:1024"`
	ShowTime   bool
	Grp        string `gorm:"size:255"`
	Latitude   *float64
	Longitude  *float64
	UpdatedAt  time.Time
}

func (entityRow) TableName() string { return entitiesTable }

var entityColumns = []string{"id", "name", "address", "speciality", "insurance", "slots", "booking_url", "show_time", "grp", "latitude", "longitude", "updated_at"}

// SQLStore keeps entities in the entities table.
type SQLStore struct {
	db     *gorm.DB
	logger *zap.Logger
	mu     sync.Mutex
}

// NewSQLStore migrates the entities table and verifies its columns.
func NewSQLStore(db *gorm.DB, logger *zap.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&entityRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", entitiesTable, err)
	}
	missing, err := database.MissingColumns(db, entitiesTable, entityColumns)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("table %s is missing columns %v", entitiesTable, missing)
	}
	return &SQLStore{db: db, logger: logger}, nil
}

func (s *SQLStore) Load(ctx context.Context) map[string]provider.Entity {
	out := make(map[string]provider.Entity)

	var rows []entityRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		s.logger.Warn("Store query failed, reading as empty", zap.Error(err))
		return out
	}
	for _, r := range rows {
		e, err := r.entity()
		if err != nil {
			s.logger.Warn("Skipping undecodable row", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		out[e.ID] = e
	}
	return out
}

func (s *SQLStore) Upsert(ctx context.Context, e provider.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := rowFor(e)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", e.ID, err)
	}
	return nil
}

func (s *SQLStore) RemoveStale(ctx context.Context, activeIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	if err := s.db.WithContext(ctx).Model(&entityRow{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list ids: %w", err)
	}

	snapshot := make(map[string]provider.Entity, len(ids))
	for _, id := range ids {
		snapshot[id] = provider.Entity{}
	}
	removed := stale(snapshot, activeIDs)
	if len(removed) == 0 {
		return nil, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", removed).Delete(&entityRow{}).Error; err != nil {
		return nil, fmt.Errorf("failed to remove stale entities: %w", err)
	}
	return removed, nil
}

func rowFor(e provider.Entity) (entityRow, error) {
	speciality, err := json.Marshal(e.Speciality)
	if err != nil {
		return entityRow{}, err
	}
	insurance, err := json.Marshal(e.Insurance)
	if err != nil {
		return entityRow{}, err
	}
	slots, err := json.Marshal(e.Slots)
	if err != nil {
		return entityRow{}, err
	}
	row := entityRow{
		ID:         e.ID,
		Name:       e.Name,
		Address:    e.Address,
		Speciality: string(speciality),
		Insurance:  string(insurance),
		Slots:      string(slots),
		BookingURL: e.BookingURL,
		ShowTime:   e.ShowTime,
		Grp:        e.Group,
		UpdatedAt:  time.Now(),
	}
	if e.Location != nil {
		lat, lon := e.Location.Lat, e.Location.Lon
		row.Latitude, row.Longitude = &lat, &lon
	}
	return row, nil
}

func (r entityRow) entity() (provider.Entity, error) {
	e := provider.Entity{
		ID:         r.ID,
		Name:       r.Name,
		Address:    r.Address,
		BookingURL: r.BookingURL,
		ShowTime:   r.ShowTime,
		Group:      r.Grp,
		Insurance:  []string{},
		Slots:      []provider.Slot{},
	}
	if err := unmarshalColumn(r.Speciality, &e.Speciality); err != nil {
		return e, fmt.Errorf("speciality: %w", err)
	}
	if err := unmarshalColumn(r.Insurance, &e.Insurance); err != nil {
		return e, fmt.Errorf("insurance: %w", err)
	}
	if err := unmarshalColumn(r.Slots, &e.Slots); err != nil {
		return e, fmt.Errorf("slots: %w", err)
	}
	if r.Latitude != nil && r.Longitude != nil {
		e.Location = &provider.Coordinates{Lat: *r.Latitude, Lon: *r.Longitude}
	}
	return e, nil
}

func unmarshalColumn(s string, v any) error {
	if s == "" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
