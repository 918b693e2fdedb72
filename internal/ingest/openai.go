package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

const scorePromptTemplate = `Estimate sentiment score for %s stock from the news article: negative=-1, neutral=0, positive=1.
Provide the answer as JSON with fields "score" (integer), "type" and "comment" (short reason).
If the article does not contain mention of the specific stock, rate neutral.
Title: %s
Article: %s
Detect if the article is a financial statement - set "type" to "story" or "fs" for financial statement.
A financial statement is a report issued by that company summarizing financial performance for the last quarter or year.`

// OpenAIScorer implements Scorer against an OpenAI-compatible chat
// completions endpoint.
type OpenAIScorer struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

// NewOpenAIScorer creates a scorer with optional proxy support.
func NewOpenAIScorer(baseURL, apiKey, modelName, proxyURL string) *OpenAIScorer {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &OpenAIScorer{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
		Client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
	}
}

func (s *OpenAIScorer) Name() string { return "openai" }

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// scoreAnswer is the JSON object the model is instructed to return.
type scoreAnswer struct {
	Score   int    `json:"score"`
	Type    string `json:"type"`
	Comment string `json:"comment"`
}

// Score sends one article to the completion endpoint and parses the
// structured answer.
func (s *OpenAIScorer) Score(symbol, title, body string) (model.Sentiment, error) {
	reqBody := chatRequest{
		Model: s.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a financial news sentiment analysis assistant."},
			{Role: "user", Content: fmt.Sprintf(scorePromptTemplate, symbol, title, body)},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequest("POST", s.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return model.Sentiment{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("score read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.Sentiment{}, fmt.Errorf("score API: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return model.Sentiment{}, fmt.Errorf("score decode: %w", err)
	}
	if chat.Error != nil {
		return model.Sentiment{}, fmt.Errorf("score API error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return model.Sentiment{}, fmt.Errorf("score API: no choices returned")
	}

	var answer scoreAnswer
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &answer); err != nil {
		return model.Sentiment{}, fmt.Errorf("score parse answer %q: %w", chat.Choices[0].Message.Content, err)
	}
	if answer.Score < -1 || answer.Score > 1 {
		return model.Sentiment{}, fmt.Errorf("score out of range: %d", answer.Score)
	}

	category := model.Category(answer.Type)
	if category != model.CategoryStory && category != model.CategoryFinancialStatement {
		category = model.CategoryStory
	}
	return model.Sentiment{
		Score:    answer.Score,
		Category: category,
		Comment:  answer.Comment,
	}, nil
}
