package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"ytworkout/errors"
	"ytworkout/models"
)

// Client talks to the Perplexity chat-completions API (OpenAI-compatible
// wire format). One extraction is one outbound call; nothing is cached or
// retried.

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar"

	completionsPath   = "/chat/completions"
	maxResponseBody   = 1 << 20
	systemInstruction = "You are an assistant that extracts workout details. " +
		"You will extract information related to exercises, sets, and reps. " +
		"You will only get information about exercises related to weightlifting or bodyweight exercises."
)

const userPromptTemplate = `Extract workout details (exercise name, sets, reps) from the following transcript:
%s

Return just the result as a JSON list with this structure:
[
    {"exercise": "Push-ups", "sets": 3, "reps": 15},
    {"exercise": "Squats", "sets": 4, "reps": 12}
]

Please do not add anything else, simply return the JSON list. This includes adding markdown formatting.`

type Config struct {
	// APIKey may be empty; ExtractWorkout then fails before any network
	// call.
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

type Client struct {
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 20
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute)/60, 1),
		logger:     logrus.StandardLogger(),
	}
}

// --- chat completions wire format ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractWorkout sends the transcript text with the fixed extraction
// prompt and parses the completion strictly as a JSON exercise array.
func (c *Client) ExtractWorkout(ctx context.Context, transcriptText string) (models.WorkoutPlan, error) {
	const op = "perplexity.ExtractWorkout"

	if c.config.APIKey == "" {
		return nil, errors.MissingCredential(op,
			"Perplexity API key is missing. Please set PERPLEXITY_API_KEY.")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Upstream(op, err, "Failed to connect to Perplexity API")
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: fmt.Sprintf(userPromptTemplate, transcriptText)},
		},
	})
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to encode completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+completionsPath, bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Upstream(op, err, "Failed to connect to Perplexity API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, errors.Upstream(op,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet),
			"Failed to connect to Perplexity API")
	}

	var completion chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&completion); err != nil {
		return nil, errors.Upstream(op, err, "Failed to connect to Perplexity API")
	}
	if len(completion.Choices) == 0 {
		return nil, errors.Upstream(op, nil, "Completion response contained no choices")
	}

	content := completion.Choices[0].Message.Content

	c.logger.WithFields(logrus.Fields{
		"model":    c.config.Model,
		"duration": time.Since(start),
		"length":   len(content),
	}).Debug("Completion received")

	var plan models.WorkoutPlan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, errors.Parse(op, err, "Failed to parse Perplexity response as JSON.")
	}

	return plan, nil
}
