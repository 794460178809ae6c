package util

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"saharaessence/internal/app/storefront/entity"
)

// GeminiClient - HTTP клиент Generative Language API
// Обслуживает и генерацию текста, и эмбеддинги одним ключом
// Повторов нет: каждая ошибка обрабатывается вызывающим ровно один раз
type GeminiClient struct {
	apiKey          string
	baseURL         string
	generativeModel string
	embeddingModel  string
	httpClient      *http.Client
}

// NewGeminiClient создает новый клиент Generative Language API
// Отсутствие ключа - ошибка конфигурации, неисправимая на время запроса
func NewGeminiClient(apiKey, baseURL, generativeModel, embeddingModel string, timeoutSec int) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_GENERATIVE_AI_API_KEY")
	}

	return &GeminiClient{
		apiKey:          apiKey,
		baseURL:         baseURL,
		generativeModel: generativeModel,
		embeddingModel:  embeddingModel,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}, nil
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type embedContentRequest struct {
	Content geminiContent `json:"content"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// GenerateText отправляет prompt в генеративную модель и возвращает текст ответа
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqBody := generateContentRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	var resp generateContentResponse
	if err := c.post(ctx, c.generativeModel, "generateContent", reqBody, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// EmbedText превращает текст в вектор фиксированной длины
func (c *GeminiClient) EmbedText(ctx context.Context, text string) (entity.Vector, error) {
	reqBody := embedContentRequest{
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	}

	var resp embedContentResponse
	if err := c.post(ctx, c.embeddingModel, "embedContent", reqBody, &resp); err != nil {
		return nil, err
	}

	if len(resp.Embedding.Values) == 0 {
		return nil, errors.New("gemini returned empty embedding")
	}

	return entity.Vector(resp.Embedding.Values), nil
}

// post выполняет один вызов API: models/{model}:{operation}
func (c *GeminiClient) post(ctx context.Context, model, operation string, reqBody, respBody interface{}) error {
	url := fmt.Sprintf("%s/models/%s:%s?key=%s", c.baseURL, model, operation, c.apiKey)

	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("failed to unmarshal gemini response: %w", err)
	}

	return nil
}
