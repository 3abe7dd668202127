package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/infras/otel/mocks"
	"innkeep/infras/postgres"
	"innkeep/shared/dto"
	"innkeep/shared/repository"
)

type roomRow struct {
	ID           string `db:"id"`
	PropertyID   string `db:"property_id"`
	Number       string `db:"number"`
	CategoryName string `db:"category_name" table:"room_categories" column:"name"`
}

func (roomRow) GetJoinQuery() string {
	return "LEFT JOIN room_categories ON room_categories.id = rooms.category_id"
}

func newRepo(t *testing.T) (repository.Repository[roomRow], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	return repository.NewRepository[roomRow]("room", "rooms", "id", conn, mocks.NewOtel()), mock
}

func byID(id string) dto.FilterGroup {
	return dto.And(dto.Filter{Field: "id", Table: "rooms", Operator: dto.FilterOperatorEq, Value: id})
}

func TestInsertColumnsSkipJoinedFields(t *testing.T) {
	repo, _ := newRepo(t)

	assert.Equal(t, []string{"id", "property_id", "number"}, repo.InsertColumns)
}

func TestInsert(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rooms (id, property_id, number) VALUES ($1, $2, $3)")).
		WithArgs("r1", "p1", "101").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), roomRow{ID: "r1", PropertyID: "p1", Number: "101"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT rooms.id, rooms.property_id, rooms.number, room_categories.name AS category_name FROM rooms LEFT JOIN room_categories")).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "number", "category_name"}).AddRow("r1", "p1", "101", "Deluxe"))

	got, err := repo.Get(context.Background(), byID("r1"))

	require.NoError(t, err)
	assert.Equal(t, roomRow{ID: "r1", PropertyID: "p1", Number: "101", CategoryName: "Deluxe"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM rooms").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "number", "category_name"}))

	_, err := repo.Get(context.Background(), byID("missing"))

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetAllPaginates(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY rooms.number ASC LIMIT $2 OFFSET $3")).
		WithArgs("p1", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "number", "category_name"}).
			AddRow("r11", "p1", "111", "Suite"))

	filter := dto.And(dto.Filter{Field: "property_id", Table: "rooms", Operator: dto.FilterOperatorEq, Value: "p1"})
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "number", SortDir: dto.SortDirAsc}

	rows, err := repo.GetAll(context.Background(), params, filter)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "r11", rows[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllSortsOnlyByKnownColumns(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortDir   string
		wantQuery string
	}{
		{name: "own column", sortBy: "number", sortDir: "asc", wantQuery: "ORDER BY rooms.number ASC"},
		{name: "qualified column", sortBy: "rooms.property_id", sortDir: dto.SortDirDesc, wantQuery: "ORDER BY rooms.property_id DESC"},
		{name: "joined alias", sortBy: "category_name", sortDir: dto.SortDirAsc, wantQuery: "ORDER BY room_categories.name ASC"},
		{name: "subquery", sortBy: "(SELECT pg_sleep(10))", sortDir: dto.SortDirAsc, wantQuery: "FROM rooms LEFT JOIN room_categories ON room_categories.id = rooms.category_id   LIMIT"},
		{name: "unknown column", sortBy: "password", sortDir: dto.SortDirAsc, wantQuery: "FROM rooms LEFT JOIN room_categories ON room_categories.id = rooms.category_id   LIMIT"},
		{name: "direction injection", sortBy: "number", sortDir: "ASC; DROP TABLE rooms", wantQuery: "FROM rooms LEFT JOIN room_categories ON room_categories.id = rooms.category_id   LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)

			mock.ExpectQuery(regexp.QuoteMeta(tt.wantQuery)).
				WithArgs(10).
				WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "number", "category_name"}))

			params := dto.QueryParams{Limit: 10, SortBy: tt.sortBy, SortDir: tt.sortDir}

			_, err := repo.GetAll(context.Background(), params, dto.FilterGroup{})

			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCount(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(rooms.id) FROM rooms")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.Count(context.Background(), dto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestUpdateReturnsAffectedRows(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET number = $1, property_id = $2 WHERE (rooms.id = $3)")).
		WithArgs("102", "p2", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Update(context.Background(), map[string]any{"property_id": "p2", "number": "102"}, byID("r1"))

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWritesRequireFilter(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, map[string]any{"number": "1"}, dto.FilterGroup{})
	assert.ErrorIs(t, err, repository.ErrRequiredFilter)

	_, err = repo.Delete(ctx, dto.FilterGroup{})
	assert.ErrorIs(t, err, repository.ErrRequiredFilter)

	_, err = repo.Exist(ctx, dto.FilterGroup{})
	assert.ErrorIs(t, err, repository.ErrRequiredFilter)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rooms WHERE (rooms.id = $1)")).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), byID("r1"))

	require.NoError(t, err)
	assert.Zero(t, affected)
}
