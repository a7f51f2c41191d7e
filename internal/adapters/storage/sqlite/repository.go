package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
	"github.com/jsamuelsen/conceptnametag-service/internal/ports"
)

const table = "concept_name_tag"

const entityName = "concept name tag"

var columns = []string{
	"concept_name_tag_id",
	"uuid",
	"tag",
	"description",
	"creator",
	"date_created",
	"voided",
	"voided_by",
	"date_voided",
	"void_reason",
}

// tagRow is the stored form of a tag. Times are RFC 3339 text in UTC.
type tagRow struct {
	ID          int64          `db:"concept_name_tag_id"`
	UUID        string         `db:"uuid"`
	Tag         string         `db:"tag"`
	Description string         `db:"description"`
	Creator     string         `db:"creator"`
	DateCreated string         `db:"date_created"`
	Voided      bool           `db:"voided"`
	VoidedBy    sql.NullString `db:"voided_by"`
	DateVoided  sql.NullString `db:"date_voided"`
	VoidReason  sql.NullString `db:"void_reason"`
}

func (r *tagRow) toDomain() (*domain.ConceptNameTag, error) {
	created, err := time.Parse(time.RFC3339Nano, r.DateCreated)
	if err != nil {
		return nil, fmt.Errorf("parsing date_created of tag %d: %w", r.ID, err)
	}

	tag := &domain.ConceptNameTag{
		ID:          r.ID,
		UUID:        r.UUID,
		Tag:         r.Tag,
		Description: r.Description,
		Creator:     r.Creator,
		DateCreated: created,
		Voided:      r.Voided,
		VoidedBy:    r.VoidedBy.String,
		VoidReason:  r.VoidReason.String,
	}

	if r.DateVoided.Valid {
		voided, err := time.Parse(time.RFC3339Nano, r.DateVoided.String)
		if err != nil {
			return nil, fmt.Errorf("parsing date_voided of tag %d: %w", r.ID, err)
		}

		tag.DateVoided = &voided
	}

	return tag, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Repository implements ports.ConceptNameTagRepository.
type Repository struct {
	db     *sqlx.DB
	sb     sq.StatementBuilderType
	logger *slog.Logger
}

// NewRepository creates a repository over an opened, migrated database.
func NewRepository(db *sqlx.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger: logger.With(slog.String("component", "sqlite.Repository")),
	}
}

var _ ports.ConceptNameTagRepository = (*Repository)(nil)

func (r *Repository) selectTags() sq.SelectBuilder {
	return r.sb.Select(columns...).From(table)
}

// getOne runs a single-row query. It returns nil, nil when no row matches.
func (r *Repository) getOne(ctx context.Context, q sq.SelectBuilder) (*domain.ConceptNameTag, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "sqlite query", slog.String("sql", query))

	var row tagRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, r.storeError(err)
	}

	return row.toDomain()
}

// FindTagByName implements ports.ConceptNameTagLookup. Voided tags are
// included: a retired tag still owns its name.
func (r *Repository) FindTagByName(ctx context.Context, name string) (*domain.ConceptNameTag, error) {
	return r.getOne(ctx, r.selectTags().Where("tag = ? COLLATE NOCASE", name))
}

// GetByID implements ports.ConceptNameTagRepository.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ConceptNameTag, error) {
	tag, err := r.getOne(ctx, r.selectTags().Where(sq.Eq{"concept_name_tag_id": id}))
	if err != nil {
		return nil, err
	}

	if tag == nil {
		return nil, domain.NewNotFoundError(entityName, strconv.FormatInt(id, 10))
	}

	return tag, nil
}

// GetByUUID implements ports.ConceptNameTagRepository.
func (r *Repository) GetByUUID(ctx context.Context, uuid string) (*domain.ConceptNameTag, error) {
	tag, err := r.getOne(ctx, r.selectTags().Where(sq.Eq{"uuid": uuid}))
	if err != nil {
		return nil, err
	}

	if tag == nil {
		return nil, domain.NewNotFoundError(entityName, uuid)
	}

	return tag, nil
}

// List implements ports.ConceptNameTagRepository.
func (r *Repository) List(ctx context.Context, opts ports.ListOptions) ([]*domain.ConceptNameTag, error) {
	q := r.selectTags().OrderBy("tag COLLATE NOCASE", "concept_name_tag_id")

	if !opts.IncludeVoided {
		q = q.Where(sq.Eq{"voided": false})
	}

	if opts.After != "" {
		q = q.Where("tag > ? COLLATE NOCASE", opts.After)
	}

	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	var rows []tagRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.storeError(err)
	}

	tags := make([]*domain.ConceptNameTag, 0, len(rows))
	for i := range rows {
		tag, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

// Save implements ports.ConceptNameTagRepository.
func (r *Repository) Save(ctx context.Context, tag *domain.ConceptNameTag) error {
	if tag == nil {
		return domain.NewInvalidArgumentError("tag", "must not be nil")
	}

	if tag.IsNew() {
		return r.insert(ctx, tag)
	}

	return r.update(ctx, tag)
}

func (r *Repository) values(tag *domain.ConceptNameTag) map[string]any {
	var dateVoided sql.NullString
	if tag.DateVoided != nil {
		dateVoided = sql.NullString{String: formatTime(*tag.DateVoided), Valid: true}
	}

	return map[string]any{
		"uuid":         tag.UUID,
		"tag":          tag.Tag,
		"description":  tag.Description,
		"creator":      tag.Creator,
		"date_created": formatTime(tag.DateCreated),
		"voided":       tag.Voided,
		"voided_by":    nullString(tag.VoidedBy),
		"date_voided":  dateVoided,
		"void_reason":  nullString(tag.VoidReason),
	}
}

func (r *Repository) insert(ctx context.Context, tag *domain.ConceptNameTag) error {
	query, args, err := r.sb.Insert(table).SetMap(r.values(tag)).ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.storeError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted id: %w", err)
	}

	tag.ID = id

	logging.FromContext(ctx).DebugContext(ctx, "tag inserted",
		slog.Int64("id", id),
		slog.String("uuid", tag.UUID),
	)

	return nil
}

func (r *Repository) update(ctx context.Context, tag *domain.ConceptNameTag) error {
	query, args, err := r.sb.Update(table).
		SetMap(r.values(tag)).
		Where(sq.Eq{"concept_name_tag_id": tag.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.storeError(err)
	}

	return expectOneRow(res, tag.ID)
}

// Purge implements ports.ConceptNameTagRepository.
func (r *Repository) Purge(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"concept_name_tag_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.storeError(err)
	}

	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return domain.NewNotFoundError(entityName, strconv.FormatInt(id, 10))
	}

	return nil
}

// storeError maps driver errors onto domain errors.
func (r *Repository) storeError(err error) error {
	var se *sqlitedriver.Error
	if errors.As(err, &se) {
		// Driver text names tables and columns; it stays in the log.
		if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			r.logger.Warn("sqlite unique constraint violated", slog.Any("error", err))
			return domain.NewConflictError(entityName, "tag or uuid already exists")
		}

		// Primary result code; extended busy/locked variants share it.
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			r.logger.Warn("sqlite busy", slog.Any("error", err))
			return domain.NewUnavailableError("sqlite", "database is busy")
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	r.logger.Error("sqlite statement failed", slog.Any("error", err))

	return fmt.Errorf("sqlite: %w", err)
}
