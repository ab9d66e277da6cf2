package store

import (
	"context"

	"gorm.io/gorm"
)

// TableClient is the narrow surface the sync writer and the bin-count relay
// need from the database. Handlers get one per table from NewGormTable.
type TableClient interface {
	Name() string
	Select(ctx context.Context, filter Row, limit int, offset int) ([]Row, error)
	Insert(ctx context.Context, rows []Row) error
	Upsert(ctx context.Context, rows []Row) error
	DeleteWhere(ctx context.Context, column string, op string, value interface{}) error
	Count(ctx context.Context) (int64, error)
}

type gormTable struct {
	db    *gorm.DB
	table string
}

func NewGormTable(db *gorm.DB, table string) TableClient {
	return &gormTable{db: db, table: table}
}

func (t *gormTable) Name() string {
	return t.table
}

func (t *gormTable) Select(ctx context.Context, filter Row, limit int, offset int) ([]Row, error) {
	query := t.db.WithContext(ctx).Table(t.table)
	for _, col := range columnsOf(filter) {
		query = query.Where(quoteIdent(col)+" = ?", filter[col])
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []map[string]interface{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]Row, len(rows))
	for i, row := range rows {
		result[i] = Row(row)
	}
	return result, nil
}

func (t *gormTable) Insert(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	sql, args, err := BuildInsertSQL(t.table, rows)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).Exec(sql, args...).Error
}

func (t *gormTable) Upsert(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	sql, args, err := BuildUpsertSQL(t.table, rows)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).Exec(sql, args...).Error
}

func (t *gormTable) DeleteWhere(ctx context.Context, column string, op string, value interface{}) error {
	sql, args, err := BuildDeleteWhereSQL(t.table, column, op, value)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).Exec(sql, args...).Error
}

func (t *gormTable) Count(ctx context.Context) (int64, error) {
	var count int64
	err := t.db.WithContext(ctx).Table(t.table).Count(&count).Error
	return count, err
}
