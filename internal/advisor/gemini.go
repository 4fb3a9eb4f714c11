package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const systemInstruction = `你是一位谨慎的基金投资顾问。根据给出的技术面数据、大盘环境和新闻标题，
评估该基金的短期情绪面，并对技术评分给出一个 -20 到 +20 之间的整数修正。
只返回严格的 JSON，不要任何其他文字：
{"adjustment": <整数>, "comment": "<一句话点评>"}`

// GeminiAdvisor asks a Gemini model for the sentiment assessment.
type GeminiAdvisor struct {
	client    *genai.Client
	modelName string
}

// NewGeminiAdvisor creates an advisor backed by the Gemini API.
func NewGeminiAdvisor(ctx context.Context, apiKey, modelName string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiAdvisor{client: client, modelName: modelName}, nil
}

func (g *GeminiAdvisor) Name() string { return "gemini" }

// Assess sends one prompt per fund and parses the strict-JSON reply.
// The adjustment is clamped to [-20, 20] no matter what the model returns.
func (g *GeminiAdvisor) Assess(ctx context.Context, req *Request) (*Assessment, error) {
	chat, err := g.client.Chats.Create(ctx, g.modelName, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create gemini chat: %w", err)
	}

	resp, err := chat.Send(ctx, &genai.Part{Text: buildPrompt(req)})
	if err != nil {
		return nil, fmt.Errorf("gemini send: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty response")
	}

	payload := stripFences(resp.Candidates[0].Content.Parts[0].Text)
	parsed := gjson.Parse(payload)
	adjustment := parsed.Get("adjustment")
	if !adjustment.Exists() {
		return nil, fmt.Errorf("gemini: reply is not the expected JSON: %.120s", payload)
	}

	return &Assessment{
		Adjustment: ClampAdjustment(int(adjustment.Int())),
		Commentary: strings.TrimSpace(parsed.Get("comment").String()),
	}, nil
}

func buildPrompt(req *Request) string {
	var b strings.Builder
	p := req.Profile
	fmt.Fprintf(&b, "基金: %s (%s)\n", req.FundName, p.Code)
	fmt.Fprintf(&b, "现价: %.3f | RSI: %.1f | 20日乖离: %.2f%% | 日线: %s | 周线: %s\n",
		p.Price, p.RSI, p.Bias20, p.TrendDaily, p.TrendWeekly)
	fmt.Fprintf(&b, "技术评分: %d (%s)\n", p.QuantScore, p.QuantSignal)
	if req.MarketContext != "" {
		fmt.Fprintf(&b, "大盘环境: %s\n", req.MarketContext)
	}
	if len(req.NewsTitles) > 0 {
		b.WriteString("近期新闻:\n")
		for _, t := range req.NewsTitles {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	return b.String()
}

// stripFences removes a ```json ... ``` wrapper if the model added one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
