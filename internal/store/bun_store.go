package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/smilemakc/trainerflow/internal/domain"
	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
)

// BunStore is the Postgres-backed Store, grounded on the teacher's
// BunStore (internal/infrastructure/storage/bun_store.go): bun.DB over
// pgdriver/pgdialect and jsonb-typed columns for structured payloads.
// The two persistence writes run as separate statements, not in one
// transaction.
type BunStore struct {
	db *bun.DB
}

// NewBunStore opens a Postgres connection through bun/pgdriver.
func NewBunStore(dsn string) *BunStore {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &BunStore{db: db}
}

// InitSchema creates the tables this store needs if they don't exist,
// the same IfNotExists discipline as the teacher's InitSchema.
func (s *BunStore) InitSchema(ctx context.Context) error {
	models := []interface{}{
		(*UserModel)(nil),
		(*VariationModel)(nil),
		(*SessionArchiveModel)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}
	return nil
}

// UserModel mirrors `users/{uid}` from spec.md §6.
type UserModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UID                     string         `bun:"uid,pk"`
	Metrics                 domain.Metrics `bun:"metrics,type:jsonb"`
	Discomforts             []string       `bun:"discomforts,type:jsonb"`
	Objectives              []string       `bun:"objectives,type:jsonb"`
	PreferredDisciplines    []string       `bun:"preferred_disciplines,type:jsonb"`
	BlackListedVariationIDs []string       `bun:"black_listed_variation_ids,type:jsonb"`
	LastUpdated             time.Time      `bun:"last_updated"`
}

// VariationModel mirrors the flattened `exercises/{eid}/variations/{vid}`
// catalogue entries.
type VariationModel struct {
	bun.BaseModel `bun:"table:variations,alias:v"`

	ID          string   `bun:"id,pk"`
	Name        string   `bun:"name"`
	Phase       string   `bun:"phase"`
	Disciplines []string `bun:"disciplines,type:jsonb"`
	Tags        []string `bun:"tags,type:jsonb"`
}

func (m *VariationModel) toDomain() domain.ExerciseVariation {
	return domain.ExerciseVariation{
		ID:          m.ID,
		Name:        m.Name,
		Phase:       domain.Phase(m.Phase),
		Disciplines: m.Disciplines,
		Tags:        m.Tags,
	}
}

// SessionArchiveModel mirrors `users/{uid}/sessions/sessions_week_{timestamp}`.
type SessionArchiveModel struct {
	bun.BaseModel `bun:"table:session_archives,alias:sa"`

	ID            uuid.UUID               `bun:"id,pk"`
	UID           string                  `bun:"uid"`
	WeeklyPlan    domain.WeeklyPlan       `bun:"weekly_plan,type:jsonb"`
	FinalSessions []domain.TrainingSession `bun:"final_sessions,type:jsonb"`
	CreatedAt     time.Time               `bun:"created_at"`
	WeekTimestamp string                  `bun:"week_timestamp"`
}

func (s *BunStore) GetUserProfile(ctx context.Context, uid string) (domain.UserProfile, error) {
	model := new(UserModel)
	err := s.db.NewSelect().Model(model).Where("uid = ?", uid).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.UserProfile{}, domainerrors.NewLoadError(uid, "missing-user", err)
		}
		return domain.UserProfile{}, domainerrors.NewLoadError(uid, "store-unreachable", err)
	}

	return domain.UserProfile{
		UID:                  model.UID,
		Metrics:              model.Metrics,
		Discomforts:          model.Discomforts,
		Objectives:           model.Objectives,
		PreferredDisciplines: model.PreferredDisciplines,
	}, nil
}

func (s *BunStore) GetAllVariations(ctx context.Context) ([]domain.ExerciseVariation, error) {
	var models []VariationModel
	if err := s.db.NewSelect().Model(&models).Scan(ctx); err != nil {
		return nil, domainerrors.NewCatalogueError(fmt.Sprintf("store-unreachable: %v", err))
	}

	out := make([]domain.ExerciseVariation, len(models))
	for i, m := range models {
		out[i] = m.toDomain()
	}
	return out, nil
}

func (s *BunStore) GetBlacklistedVariationIDs(ctx context.Context, uid string) ([]string, error) {
	model := new(UserModel)
	err := s.db.NewSelect().Model(model).Column("black_listed_variation_ids").Where("uid = ?", uid).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domainerrors.NewLoadError(uid, "missing-user", err)
		}
		return nil, domainerrors.NewLoadError(uid, "store-unreachable", err)
	}
	return model.BlackListedVariationIDs, nil
}

// WriteSessionArchive is write A of node 8, run standalone (not inside
// the same transaction as write B) per spec.md §4.12: "if B fails
// after A succeeds, the archive is still durable".
func (s *BunStore) WriteSessionArchive(ctx context.Context, uid string, archive SessionArchive) error {
	model := &SessionArchiveModel{
		ID:            uuid.New(),
		UID:           uid,
		WeeklyPlan:    archive.WeeklyPlan,
		FinalSessions: archive.FinalSessions,
		CreatedAt:     archive.CreatedAt,
		WeekTimestamp: archive.WeekTimestamp,
	}
	if _, err := s.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return domainerrors.NewPersistenceError("archive", err)
	}
	return nil
}

// UpdateUser is write B of node 8.
func (s *BunStore) UpdateUser(ctx context.Context, uid string, update UserUpdate) error {
	_, err := s.db.NewUpdate().
		Model((*UserModel)(nil)).
		Set("black_listed_variation_ids = ?", update.BlacklistedVariationIDs).
		Set("last_updated = ?", update.LastUpdated).
		Where("uid = ?", uid).
		Exec(ctx)
	if err != nil {
		return domainerrors.NewPersistenceError("rotate-blacklist", err)
	}
	return nil
}

var _ Store = (*BunStore)(nil)
