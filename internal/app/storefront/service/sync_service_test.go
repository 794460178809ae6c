package service

import (
	"context"
	"errors"
	"testing"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTopic = "catalog_events"

func newSyncService(
	repo *mocks.MockPerfumeRepository,
	source *mocks.MockSheetSource,
	embedder *mocks.MockTextEmbedder,
	publisher *mocks.MockMessagePublisher,
	cache *mocks.MockPerfumeCache,
) *SyncService {
	return NewSyncService(repo, source, embedder, publisher, cache, testTopic)
}

func TestSyncService_ReadSource_MapsColumnsAndDefaults(t *testing.T) {
	// Arrange
	ctx := context.Background()
	source := new(mocks.MockSheetSource)

	source.On("ReadGrid", ctx).Return([][]string{
		{"ID", "Name", "Brand", "Gender", "Family", "Notes", "Size", "Price", "Image", "precio_costo"},
		{"1", "Oud Royal", "Sahara", "", "", "", "", "95000.50", "", "40000"},
	}, nil).Once()

	svc := newSyncService(new(mocks.MockPerfumeRepository), source, nil, nil, nil)

	// Act
	rows, err := svc.ReadSource(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 1, row.ID)
	assert.Equal(t, "Oud Royal", row.Name)
	assert.Equal(t, "Sahara", row.Brand)
	assert.Equal(t, "Unisex", row.Gender)
	assert.Equal(t, "Sin clasificar", row.Family)
	assert.Equal(t, "100ml", row.Size)
	assert.Equal(t, "/placeholder.jpg", row.Image)
	assert.Equal(t, 95000.50, row.Price)
	assert.True(t, row.Notes.IsEmpty())
	assert.Equal(t, 40000.0, row.PrecioCosto)
}

func TestSyncService_ReadSource_SkipsRowsWithoutIDOrName(t *testing.T) {
	ctx := context.Background()
	source := new(mocks.MockSheetSource)

	source.On("ReadGrid", ctx).Return([][]string{
		{"id", "name", "price"},
		{"", "Sin ID", "100"},
		{"7", "", "100"},
		{"no-numero", "ID roto", "100"},
		{"3", "Valida", "100"},
	}, nil).Once()

	svc := newSyncService(new(mocks.MockPerfumeRepository), source, nil, nil, nil)

	rows, err := svc.ReadSource(ctx)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].ID)
	assert.Equal(t, "Valida", rows[0].Name)
}

func TestSyncService_ReadSource_ParsesNotesAndTags(t *testing.T) {
	ctx := context.Background()
	source := new(mocks.MockSheetSource)

	source.On("ReadGrid", ctx).Return([][]string{
		{"id", "name", "notes", "season", "occasion"},
		{"1", "Oud Royal", `{"top":["Bergamota"],"middle":[],"base":["Ámbar"]}`, "Verano, Primavera", `["Fiesta"]`},
	}, nil).Once()

	svc := newSyncService(new(mocks.MockPerfumeRepository), source, nil, nil, nil)

	rows, err := svc.ReadSource(ctx)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Bergamota"}, rows[0].Notes.Top)
	assert.Equal(t, []string{"Ámbar"}, rows[0].Notes.Base)
	assert.Equal(t, entity.TagSet{"Verano", "Primavera"}, rows[0].Season)
	assert.Equal(t, entity.TagSet{"Fiesta"}, rows[0].Occasion)
}

func TestSyncService_ReadSource_EmptySheet(t *testing.T) {
	ctx := context.Background()
	source := new(mocks.MockSheetSource)
	source.On("ReadGrid", ctx).Return([][]string{}, nil).Once()

	svc := newSyncService(new(mocks.MockPerfumeRepository), source, nil, nil, nil)

	rows, err := svc.ReadSource(ctx)

	require.NoError(t, err)
	assert.Empty(t, rows)
}

// Полная реконсиляция: вставка новой строки, обновление существующей,
// удаление пропавшей из источника
func TestSyncService_Reconcile_InsertUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	publisher := new(mocks.MockMessagePublisher)
	cache := new(mocks.MockPerfumeCache)

	repo.On("ListIDs", ctx).Return([]int{1, 2}, nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(p *entity.Perfume) bool { return p.ID == 1 })).Return(nil).Once()
	repo.On("Insert", ctx, mock.MatchedBy(func(p *entity.Perfume) bool { return p.ID == 3 })).Return(nil).Once()
	repo.On("DeleteByIDs", ctx, []int{2}).Return(nil).Once()

	publisher.On("PublishMessage", ctx, "1", mock.Anything).Return(nil).Once()
	publisher.On("PublishMessage", ctx, "3", mock.Anything).Return(nil).Once()
	publisher.On("PublishMessage", ctx, "2", mock.Anything).Return(nil).Once()

	cache.On("InvalidatePerfumeList", ctx).Return(nil).Once()

	svc := newSyncService(repo, new(mocks.MockSheetSource), nil, publisher, cache)

	rows := []entity.SheetRow{
		{ID: 1, Name: "Existente"},
		{ID: 3, Name: "Nuevo"},
	}

	stats, err := svc.Reconcile(ctx, rows)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, 2, stats.Total)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	cache.AssertExpectations(t)
}

// Повторный прогон того же источника идемпотентен: только обновления
func TestSyncService_Reconcile_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	publisher := new(mocks.MockMessagePublisher)
	cache := new(mocks.MockPerfumeCache)

	repo.On("ListIDs", ctx).Return([]int{1, 2}, nil).Once()
	repo.On("Update", ctx, mock.AnythingOfType("*entity.Perfume")).Return(nil).Twice()
	publisher.On("PublishMessage", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil).Twice()
	cache.On("InvalidatePerfumeList", ctx).Return(nil).Once()

	svc := newSyncService(repo, new(mocks.MockSheetSource), nil, publisher, cache)

	rows := []entity.SheetRow{{ID: 1, Name: "Uno"}, {ID: 2, Name: "Dos"}}

	stats, err := svc.Reconcile(ctx, rows)

	require.NoError(t, err)
	assert.Zero(t, stats.Inserted)
	assert.Equal(t, 2, stats.Updated)
	assert.Zero(t, stats.Deleted)
	repo.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
}

// Ошибка одной строки не прерывает прогон и не попадает в счетчики успеха
func TestSyncService_Reconcile_RowFailureSkipped(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	publisher := new(mocks.MockMessagePublisher)
	cache := new(mocks.MockPerfumeCache)

	repo.On("ListIDs", ctx).Return([]int{}, nil).Once()
	repo.On("Insert", ctx, mock.MatchedBy(func(p *entity.Perfume) bool { return p.ID == 1 })).
		Return(errors.New("constraint violation")).Once()
	repo.On("Insert", ctx, mock.MatchedBy(func(p *entity.Perfume) bool { return p.ID == 2 })).
		Return(nil).Once()
	publisher.On("PublishMessage", ctx, "2", mock.Anything).Return(nil).Once()
	cache.On("InvalidatePerfumeList", ctx).Return(nil).Once()

	svc := newSyncService(repo, new(mocks.MockSheetSource), nil, publisher, cache)

	rows := []entity.SheetRow{{ID: 1, Name: "Falla"}, {ID: 2, Name: "Pasa"}}

	stats, err := svc.Reconcile(ctx, rows)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 2, stats.Total)
}

// Сбой очереди событий не ломает синхронизацию
func TestSyncService_Reconcile_PublishFailureIgnored(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	publisher := new(mocks.MockMessagePublisher)
	cache := new(mocks.MockPerfumeCache)

	repo.On("ListIDs", ctx).Return([]int{}, nil).Once()
	repo.On("Insert", ctx, mock.AnythingOfType("*entity.Perfume")).Return(nil).Once()
	publisher.On("PublishMessage", ctx, "1", mock.Anything).Return(errors.New("broker down")).Once()
	cache.On("InvalidatePerfumeList", ctx).Return(nil).Once()

	svc := newSyncService(repo, new(mocks.MockSheetSource), nil, publisher, cache)

	stats, err := svc.Reconcile(ctx, []entity.SheetRow{{ID: 1, Name: "Uno"}})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
}

// Фатальна только невозможность прочитать множество существующих id
func TestSyncService_Reconcile_ListIDsFailureFatal(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)

	repo.On("ListIDs", ctx).Return(nil, errors.New("connection refused")).Once()

	svc := newSyncService(repo, new(mocks.MockSheetSource), nil, new(mocks.MockMessagePublisher), new(mocks.MockPerfumeCache))

	stats, err := svc.Reconcile(ctx, []entity.SheetRow{{ID: 1, Name: "Uno"}})

	assert.Error(t, err)
	assert.Nil(t, stats)
}

func TestSyncService_BackfillEmbeddings(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	embedder := new(mocks.MockTextEmbedder)

	missing := []entity.Perfume{
		{ID: 1, Name: "Uno", Brand: "Sahara"},
		{ID: 2, Name: "Dos", Brand: "Sahara"},
	}
	repo.On("ListMissingEmbedding", ctx).Return(missing, nil).Once()
	embedder.On("EmbedText", ctx, mock.AnythingOfType("string")).Return(entity.Vector{0.1}, nil).Twice()
	repo.On("UpdateEmbedding", ctx, 1, entity.Vector{0.1}).Return(nil).Once()
	repo.On("UpdateEmbedding", ctx, 2, entity.Vector{0.1}).Return(nil).Once()

	svc := newSyncService(repo, new(mocks.MockSheetSource), embedder, nil, nil)

	stats, err := svc.BackfillEmbeddings(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 2, stats.Updated)
	assert.Zero(t, stats.Failed)
	repo.AssertExpectations(t)
}

// Сбой эмбеддинга одной строки не прерывает прогон, строка уйдет в следующий
func TestSyncService_BackfillEmbeddings_FailureCounted(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	embedder := new(mocks.MockTextEmbedder)

	missing := []entity.Perfume{{ID: 1, Name: "Uno"}, {ID: 2, Name: "Dos"}}
	repo.On("ListMissingEmbedding", ctx).Return(missing, nil).Once()
	embedder.On("EmbedText", ctx, mock.MatchedBy(func(s string) bool {
		return len(s) > 0 && s[:3] == "Uno"
	})).Return(nil, errors.New("quota exceeded")).Once()
	embedder.On("EmbedText", ctx, mock.MatchedBy(func(s string) bool {
		return len(s) > 0 && s[:3] == "Dos"
	})).Return(entity.Vector{0.2}, nil).Once()
	repo.On("UpdateEmbedding", ctx, 2, entity.Vector{0.2}).Return(nil).Once()

	svc := newSyncService(repo, new(mocks.MockSheetSource), embedder, nil, nil)

	stats, err := svc.BackfillEmbeddings(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.Failed)
	repo.AssertNotCalled(t, "UpdateEmbedding", mock.Anything, 1, mock.Anything)
}

func TestSyncService_Run_ReadsAndReconciles(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	source := new(mocks.MockSheetSource)
	publisher := new(mocks.MockMessagePublisher)
	cache := new(mocks.MockPerfumeCache)

	source.On("ReadGrid", ctx).Return([][]string{
		{"id", "name", "price"},
		{"1", "Oud Royal", "95000"},
	}, nil).Once()
	repo.On("ListIDs", ctx).Return([]int{}, nil).Once()
	repo.On("Insert", ctx, mock.AnythingOfType("*entity.Perfume")).Return(nil).Once()
	publisher.On("PublishMessage", ctx, "1", mock.Anything).Return(nil).Once()
	cache.On("InvalidatePerfumeList", ctx).Return(nil).Once()

	svc := newSyncService(repo, source, nil, publisher, cache)

	stats, err := svc.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, &entity.SyncStats{Inserted: 1, Updated: 0, Deleted: 0, Total: 1}, stats)
}
