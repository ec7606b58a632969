// Package enrichment implements issue enrichment on top of the Anthropic
// Messages API: image categorization, priority prediction and
// infrastructure gap analysis.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"civiclink/models"
	"civiclink/services"
)

const (
	DefaultModel  = "claude-haiku-4-5-20251001"
	maxGapReports = 3
)

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Client wraps the Anthropic API and satisfies services.Enricher.
type Client struct {
	api    *anthropic.Client
	model  anthropic.Model
	logger *slog.Logger
}

var _ services.Enricher = (*Client)(nil)

// NewClient creates a client for the given key and model. Extra request
// options are appended after the key, so tests can point it at a fake server.
func NewClient(apiKey, model string, opts ...option.RequestOption) *Client {
	reqOpts := []option.RequestOption{}
	if apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
	}
	reqOpts = append(reqOpts, opts...)
	if model == "" {
		model = DefaultModel
	}
	client := anthropic.NewClient(reqOpts...)
	return &Client{
		api:    &client,
		model:  anthropic.Model(model),
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used for coercion warnings.
func (c *Client) WithLogger(l *slog.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

func (c *Client) CategorizeImage(ctx context.Context, imageRef string) (*services.CategoryResult, error) {
	mediaType, data, err := parseDataURI(imageRef)
	if err != nil {
		return nil, err
	}

	text, err := c.complete(ctx, categorizeSystemPrompt(), 512,
		anthropic.NewImageBlockBase64(mediaType, data),
		anthropic.NewTextBlock("Categorize the civic issue shown in this photo."),
	)
	if err != nil {
		return nil, err
	}

	var res services.CategoryResult
	if err := decodeJSON(text, &res); err != nil {
		return nil, err
	}
	return c.coerceCategory(res), nil
}

// coerceCategory maps unknown categories to Other with medium confidence
// and clamps confidence into [0, 1].
func (c *Client) coerceCategory(res services.CategoryResult) *services.CategoryResult {
	if !res.Category.Valid() {
		c.logger.Warn("model returned unknown category", "category", res.Category)
		return &services.CategoryResult{
			Category:   models.Other,
			Confidence: 0.5,
			Reasoning:  fmt.Sprintf("Original category %q was not in valid list", res.Category),
		}
	}
	res.Confidence = min(max(res.Confidence, 0), 1)
	return &res
}

func (c *Client) PredictPriority(ctx context.Context, in services.PriorityInput) (*services.PriorityResult, error) {
	system, user := buildPriorityPrompt(in.Category, in.Title, in.Description)
	text, err := c.complete(ctx, system, 512, anthropic.NewTextBlock(user))
	if err != nil {
		return nil, err
	}

	var res services.PriorityResult
	if err := decodeJSON(text, &res); err != nil {
		return nil, err
	}
	p, ok := normalizePriority(string(res.Priority))
	if !ok {
		return nil, fmt.Errorf("unexpected priority %q", res.Priority)
	}
	res.Priority = p
	return &res, nil
}

func normalizePriority(s string) (models.Priority, bool) {
	for _, p := range []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

func (c *Client) AnalyzeGaps(ctx context.Context, issues []models.IssueSummary) ([]models.GapReport, error) {
	if len(issues) < models.MinIssuesForGapAnalysis {
		return []models.GapReport{}, nil
	}
	system, user, err := buildGapPrompt(issues)
	if err != nil {
		return nil, err
	}
	text, err := c.complete(ctx, system, 2048, anthropic.NewTextBlock(user))
	if err != nil {
		return nil, err
	}

	var out struct {
		GapAnalysis []models.GapReport `json:"gapAnalysis"`
	}
	if err := decodeJSON(text, &out); err != nil {
		return nil, err
	}
	return cleanGapReports(out.GapAnalysis, issues), nil
}

// cleanGapReports drops supporting ids that are not in the analyzed set and
// caps the number of reports.
func cleanGapReports(reports []models.GapReport, issues []models.IssueSummary) []models.GapReport {
	known := make(map[string]bool, len(issues))
	for _, issue := range issues {
		known[issue.ID] = true
	}

	out := make([]models.GapReport, 0, len(reports))
	for _, r := range reports {
		ids := make([]string, 0, len(r.SupportingIssueIDs))
		for _, id := range r.SupportingIssueIDs {
			if known[id] {
				ids = append(ids, id)
			}
		}
		r.SupportingIssueIDs = ids
		out = append(out, r)
		if len(out) == maxGapReports {
			break
		}
	}
	return out
}

// complete sends one user turn and returns the first text block of the reply.
func (c *Client) complete(ctx context.Context, system string, maxTokens int64, blocks ...anthropic.ContentBlockParamUnion) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("no text content in API response")
}

// decodeJSON strips markdown fencing, if present, and unmarshals text into v.
func decodeJSON(text string, v any) error {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("parse model response as JSON: %w", err)
	}
	return nil
}

// parseDataURI splits "data:<mime>;base64,<data>" into its media type and
// payload.
func parseDataURI(ref string) (mediaType, data string, err error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", "", errors.New("image reference is not a data URI")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || payload == "" {
		return "", "", errors.New("data URI has no payload")
	}
	mediaType, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", "", errors.New("data URI is not base64 encoded")
	}
	mediaType = strings.ToLower(mediaType)
	if !supportedImageTypes[mediaType] {
		return "", "", fmt.Errorf("unsupported image type %q", mediaType)
	}
	return mediaType, payload, nil
}
