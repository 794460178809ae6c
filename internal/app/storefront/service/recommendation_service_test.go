package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testImageBase = "https://cdn.example.com/perfume_images"

func newTestMatch(id int, name string) entity.RecommendedPerfume {
	return entity.RecommendedPerfume{
		Perfume: entity.Perfume{
			ID:          id,
			Name:        name,
			Brand:       "Sahara",
			Description: "Una fragancia cálida",
			Image:       "img.jpg",
		},
		Similarity: 0.9,
	}
}

func userTurn(content string) []entity.ChatMessage {
	return []entity.ChatMessage{{Role: "user", Content: content}}
}

// Полный успешный ход: извлечение, поиск, обоснования, итоговая реплика
func TestRecommendationService_Chat_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	generator := new(mocks.MockTextGenerator)
	embedder := new(mocks.MockTextEmbedder)

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "extrae sus preferencias")
	})).Return(`{"occasion":"oficina","family":"amaderado","gender":null,"concentration":null,"season":null}`, nil).Once()

	embedder.On("EmbedText", ctx, "Perfume amaderado para oficina. algo para la oficina").
		Return(entity.Vector{0.1, 0.2}, nil).Once()

	matches := []entity.RecommendedPerfume{newTestMatch(1, "Oud Royal"), newTestMatch(2, "Noche Azul")}
	repo.On("SearchSimilar", ctx, entity.Vector{0.1, 0.2}, mock.AnythingOfType("entity.Preferences"), searchCandidates).
		Return(matches, nil).Once()

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "MÁXIMO 10 PALABRAS")
	})).Return("Calidez amaderada perfecta para tu oficina.", nil).Twice()

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "connoisseur")
	})).Return("✨ Oud Royal envolverá tu piel.", nil).Once()

	svc := NewRecommendationService(repo, generator, embedder, testImageBase)

	// Act
	resp, err := svc.Chat(ctx, userTurn("algo para la oficina"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "assistant", resp.Role)
	assert.Equal(t, "✨ Oud Royal envolverá tu piel.", resp.Content)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Calidez amaderada perfecta para tu oficina.", resp.Data[0].Reason)
	assert.Equal(t, testImageBase+"/img.jpg", resp.Data[0].Image)
	repo.AssertExpectations(t)
	generator.AssertExpectations(t)
	embedder.AssertExpectations(t)
}

// Сбой извлечения предпочтений не фатален: ход продолжается без фильтров,
// а семантический запрос деградирует к "general"
func TestRecommendationService_Chat_ExtractionFailureDegrades(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	generator := new(mocks.MockTextGenerator)
	embedder := new(mocks.MockTextEmbedder)

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "extrae sus preferencias")
	})).Return("", errors.New("model overloaded")).Once()

	embedder.On("EmbedText", ctx, "Perfume general para general. algo dulce").
		Return(entity.Vector{0.3}, nil).Once()

	repo.On("SearchSimilar", ctx, entity.Vector{0.3}, entity.Preferences{}, searchCandidates).
		Return([]entity.RecommendedPerfume{newTestMatch(1, "Dulce Aurora")}, nil).Once()

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "MÁXIMO 10 PALABRAS")
	})).Return("Dulzura sublime.", nil).Once()

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "connoisseur")
	})).Return("✨ Dulce Aurora es tu esencia.", nil).Once()

	svc := NewRecommendationService(repo, generator, embedder, testImageBase)

	resp, err := svc.Chat(ctx, userTurn("algo dulce"))

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	repo.AssertExpectations(t)
}

// Кривой JSON от модели извлечения эквивалентен сбою вызова
func TestRecommendationService_Chat_MalformedExtractionDegrades(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	generator := new(mocks.MockTextGenerator)
	embedder := new(mocks.MockTextEmbedder)

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "extrae sus preferencias")
	})).Return("no es json", nil).Once()

	embedder.On("EmbedText", ctx, mock.AnythingOfType("string")).
		Return(entity.Vector{0.3}, nil).Once()
	repo.On("SearchSimilar", ctx, entity.Vector{0.3}, entity.Preferences{}, searchCandidates).
		Return([]entity.RecommendedPerfume{}, nil).Once()
	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "afinar la búsqueda")
	})).Return("¿Prefieres notas frescas o dulces?", nil).Once()

	svc := NewRecommendationService(repo, generator, embedder, testImageBase)

	resp, err := svc.Chat(ctx, userTurn("sorpréndeme"))

	require.NoError(t, err)
	assert.Empty(t, resp.Data)
}

// Сбой эмбеддинга фатален: восстановить ход без вектора нечем
func TestRecommendationService_Chat_EmbeddingFailureFatal(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	generator := new(mocks.MockTextGenerator)
	embedder := new(mocks.MockTextEmbedder)

	generator.On("GenerateText", ctx, mock.AnythingOfType("string")).
		Return(`{"occasion":null,"family":null,"gender":null,"concentration":null,"season":null}`, nil).Once()
	embedder.On("EmbedText", ctx, mock.AnythingOfType("string")).
		Return(nil, errors.New("quota exceeded")).Once()

	svc := NewRecommendationService(repo, generator, embedder, testImageBase)

	resp, err := svc.Chat(ctx, userTurn("algo fresco"))

	assert.Error(t, err)
	assert.Nil(t, resp)
	repo.AssertNotCalled(t, "SearchSimilar", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Пустая выдача дает консультативный ответ с пустым data, без ошибки
func TestRecommendationService_Chat_ZeroResultsConsultative(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	generator := new(mocks.MockTextGenerator)
	embedder := new(mocks.MockTextEmbedder)

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "extrae sus preferencias")
	})).Return(`{"occasion":"boda","family":"gourmand","gender":null,"concentration":null,"season":null}`, nil).Once()
	embedder.On("EmbedText", ctx, mock.AnythingOfType("string")).
		Return(entity.Vector{0.7}, nil).Once()
	repo.On("SearchSimilar", ctx, entity.Vector{0.7}, mock.AnythingOfType("entity.Preferences"), searchCandidates).
		Return([]entity.RecommendedPerfume{}, nil).Once()

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "afinar la búsqueda")
	})).Return("Cuéntame, ¿prefieres notas dulces o frescas? ✨", nil).Once()

	svc := NewRecommendationService(repo, generator, embedder, testImageBase)

	resp, err := svc.Chat(ctx, userTurn("algo para una boda"))

	require.NoError(t, err)
	assert.Equal(t, "assistant", resp.Role)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
	// Обоснования и итоговая реплика не генерируются вовсе
	generator.AssertNumberOfCalls(t, "GenerateText", 2)
}

// Выдача режется до трех рекомендаций
func TestRecommendationService_Chat_CapsAtThree(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	generator := new(mocks.MockTextGenerator)
	embedder := new(mocks.MockTextEmbedder)

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "extrae sus preferencias")
	})).Return(`{"occasion":null,"family":null,"gender":null,"concentration":null,"season":null}`, nil).Once()
	embedder.On("EmbedText", ctx, mock.AnythingOfType("string")).
		Return(entity.Vector{0.5}, nil).Once()

	matches := []entity.RecommendedPerfume{
		newTestMatch(1, "Uno"), newTestMatch(2, "Dos"), newTestMatch(3, "Tres"),
		newTestMatch(4, "Cuatro"), newTestMatch(5, "Cinco"),
	}
	repo.On("SearchSimilar", ctx, entity.Vector{0.5}, entity.Preferences{}, searchCandidates).
		Return(matches, nil).Once()

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "MÁXIMO 10 PALABRAS")
	})).Return("Exquisito.", nil).Times(3)
	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "connoisseur")
	})).Return("✨ Tres joyas para ti.", nil).Once()

	svc := NewRecommendationService(repo, generator, embedder, testImageBase)

	resp, err := svc.Chat(ctx, userTurn("recomiéndame"))

	require.NoError(t, err)
	assert.Len(t, resp.Data, 3)
	generator.AssertExpectations(t)
}

// Сбой одного обоснования из трех заменяется фиксированной фразой
// и не мешает остальным
func TestRecommendationService_Chat_ExplanationFailureIsolated(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	generator := new(mocks.MockTextGenerator)
	embedder := new(mocks.MockTextEmbedder)

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "extrae sus preferencias")
	})).Return(`{"occasion":null,"family":null,"gender":null,"concentration":null,"season":null}`, nil).Once()
	embedder.On("EmbedText", ctx, mock.AnythingOfType("string")).
		Return(entity.Vector{0.5}, nil).Once()

	matches := []entity.RecommendedPerfume{
		newTestMatch(1, "Uno"), newTestMatch(2, "Dos"), newTestMatch(3, "Tres"),
	}
	repo.On("SearchSimilar", ctx, entity.Vector{0.5}, entity.Preferences{}, searchCandidates).
		Return(matches, nil).Once()

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `"Dos"`)
	})).Return("", errors.New("timeout")).Once()
	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "MÁXIMO 10 PALABRAS") && !strings.Contains(p, `"Dos"`)
	})).Return("Una elección exquisita.", nil).Twice()
	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "connoisseur")
	})).Return("✨ Tres opciones sublimes.", nil).Once()

	svc := NewRecommendationService(repo, generator, embedder, testImageBase)

	resp, err := svc.Chat(ctx, userTurn("recomiéndame"))

	require.NoError(t, err)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Una elección exquisita.", resp.Data[0].Reason)
	assert.Equal(t, FallbackReason, resp.Data[1].Reason)
	assert.Equal(t, "Una elección exquisita.", resp.Data[2].Reason)
}

// Сбой итоговой реплики фатален даже при готовых рекомендациях
func TestRecommendationService_Chat_ComposeFailureFatal(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPerfumeRepository)
	generator := new(mocks.MockTextGenerator)
	embedder := new(mocks.MockTextEmbedder)

	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "extrae sus preferencias")
	})).Return(`{"occasion":null,"family":null,"gender":null,"concentration":null,"season":null}`, nil).Once()
	embedder.On("EmbedText", ctx, mock.AnythingOfType("string")).
		Return(entity.Vector{0.5}, nil).Once()
	repo.On("SearchSimilar", ctx, entity.Vector{0.5}, entity.Preferences{}, searchCandidates).
		Return([]entity.RecommendedPerfume{newTestMatch(1, "Uno")}, nil).Once()
	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "MÁXIMO 10 PALABRAS")
	})).Return("Exquisito.", nil).Once()
	generator.On("GenerateText", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "connoisseur")
	})).Return("", errors.New("internal error")).Once()

	svc := NewRecommendationService(repo, generator, embedder, testImageBase)

	resp, err := svc.Chat(ctx, userTurn("recomiéndame"))

	assert.Error(t, err)
	assert.Nil(t, resp)
}
