package service

import (
	"context"
	"fmt"
	"sync"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/repository"
	"saharaessence/internal/app/storefront/util"
	"saharaessence/pkg/logger"
	"saharaessence/pkg/metrics"
)

const (
	// Сколько кандидатов запрашивается у векторного поиска
	searchCandidates = 5
	// Сколько из них получают персональное обоснование и уходят клиенту
	recommendedLimit = 3
)

// RecommendationService реализует диалоговый подбор: извлечение предпочтений,
// эмбеддинг запроса, векторный поиск, обоснования и итоговая реплика
// Ни одна стадия не повторяется при ошибке: стадия либо деградирует, либо фатальна
type RecommendationService struct {
	perfumeRepo  repository.PerfumeRepository
	generator    util.TextGenerator
	embedder     util.TextEmbedder
	imageBaseURL string
}

func NewRecommendationService(
	perfumeRepo repository.PerfumeRepository,
	generator util.TextGenerator,
	embedder util.TextEmbedder,
	imageBaseURL string,
) *RecommendationService {
	return &RecommendationService{
		perfumeRepo:  perfumeRepo,
		generator:    generator,
		embedder:     embedder,
		imageBaseURL: imageBaseURL,
	}
}

// Chat обрабатывает один ход диалога
// Ошибка возвращается только на фатальных стадиях (эмбеддинг, поиск, генерация
// реплики); handler превращает ее в фиксированное извинение персоны
func (s *RecommendationService) Chat(ctx context.Context, messages []entity.ChatMessage) (*entity.ChatResponse, error) {
	req := entity.ChatRequest{Messages: messages}
	userMessage := req.LastUserMessage()

	// Стадия 1: извлечение предпочтений, не фатальна
	prefs := s.extractPreferences(ctx, userMessage)

	// Стадия 2: эмбеддинг семантического запроса
	embedTimer := metrics.NewStageTimer(serviceName, "embed")
	queryVector, err := s.embedder.EmbedText(ctx, semanticQuery(prefs, userMessage))
	embedTimer.ObserveDuration()
	if err != nil {
		metrics.RecordGeminiError(serviceName, "embed")
		metrics.RecordChatTurn(serviceName, "fatal")
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Стадия 3: векторный поиск с жесткими фильтрами по предпочтениям
	searchTimer := metrics.NewStageTimer(serviceName, "search")
	matches, err := s.perfumeRepo.SearchSimilar(ctx, queryVector, prefs, searchCandidates)
	searchTimer.ObserveDuration()
	if err != nil {
		metrics.RecordChatTurn(serviceName, "fatal")
		return nil, fmt.Errorf("failed to search perfumes: %w", err)
	}

	// Стадия 4: консультативный ответ при пустой выдаче
	if len(matches) == 0 {
		return s.zeroResultsReply(ctx, userMessage, prefs)
	}

	if len(matches) > recommendedLimit {
		matches = matches[:recommendedLimit]
	}

	// Стадия 5: параллельные обоснования, каждое деградирует независимо
	s.explainMatches(ctx, matches, userMessage)

	// Стадия 6: итоговая реплика ассистента
	composeTimer := metrics.NewStageTimer(serviceName, "compose")
	content, err := s.generator.GenerateText(ctx, finalPrompt(userMessage, matches))
	composeTimer.ObserveDuration()
	if err != nil {
		metrics.RecordGeminiError(serviceName, "generate")
		metrics.RecordChatTurn(serviceName, "fatal")
		return nil, fmt.Errorf("failed to compose reply: %w", err)
	}

	for i := range matches {
		matches[i].Image = entity.ResolveImageURL(matches[i].Image, s.imageBaseURL)
	}

	metrics.RecordChatTurn(serviceName, "recommended")
	logger.Info().
		Int("matches", len(matches)).
		Msg("chat turn completed")

	return &entity.ChatResponse{
		Role:    "assistant",
		Content: content,
		Data:    matches,
	}, nil
}

// extractPreferences извлекает структурированные предпочтения из реплики
// Любой сбой (вызов модели или разбор JSON) деградирует к пустым предпочтениям
func (s *RecommendationService) extractPreferences(ctx context.Context, userMessage string) entity.Preferences {
	timer := metrics.NewStageTimer(serviceName, "extract")
	defer timer.ObserveDuration()

	raw, err := s.generator.GenerateText(ctx, extractionPrompt(userMessage))
	if err != nil {
		metrics.RecordGeminiError(serviceName, "generate")
		logger.Warn().Err(err).Msg("preference extraction failed, continuing without filters")
		return entity.Preferences{}
	}

	prefs, err := entity.ParsePreferences(raw)
	if err != nil {
		logger.Warn().Err(err).Str("raw", raw).Msg("preference parsing failed, continuing without filters")
		return entity.Preferences{}
	}

	return prefs
}

// zeroResultsReply генерирует консультативный ответ, когда фильтры
// не оставили ни одного кандидата
func (s *RecommendationService) zeroResultsReply(ctx context.Context, userMessage string, prefs entity.Preferences) (*entity.ChatResponse, error) {
	timer := metrics.NewStageTimer(serviceName, "fallback")
	defer timer.ObserveDuration()

	content, err := s.generator.GenerateText(ctx, fallbackPrompt(userMessage, prefs))
	if err != nil {
		metrics.RecordGeminiError(serviceName, "generate")
		metrics.RecordChatTurn(serviceName, "fatal")
		return nil, fmt.Errorf("failed to compose consultative reply: %w", err)
	}

	metrics.RecordChatTurn(serviceName, "zero_results")
	logger.Info().Msg("chat turn completed with zero matches")

	return &entity.ChatResponse{
		Role:    "assistant",
		Content: content,
		Data:    []entity.RecommendedPerfume{},
	}, nil
}

// explainMatches генерирует персональные обоснования параллельно
// Сбой одного обоснования заменяется фиксированной фразой и не трогает остальные
func (s *RecommendationService) explainMatches(ctx context.Context, matches []entity.RecommendedPerfume, userMessage string) {
	timer := metrics.NewStageTimer(serviceName, "explain")
	defer timer.ObserveDuration()

	var wg sync.WaitGroup
	for i := range matches {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			reason, err := s.generator.GenerateText(ctx, explanationPrompt(matches[i].Perfume, userMessage))
			if err != nil {
				metrics.RecordGeminiError(serviceName, "generate")
				logger.Warn().Err(err).Int("perfume_id", matches[i].ID).Msg("explanation failed, using fallback reason")
				matches[i].Reason = FallbackReason
				return
			}
			matches[i].Reason = reason
		}(i)
	}
	wg.Wait()
}
