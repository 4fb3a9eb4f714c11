package advisor

import (
	"context"
	"strings"
	"testing"

	"FundAdvisor/internal/model"
)

func TestClampAdjustment(t *testing.T) {
	cases := []struct{ in, want int }{
		{-100, -20},
		{-20, -20},
		{0, 0},
		{15, 15},
		{20, 20},
		{33, 20},
	}
	for _, tc := range cases {
		if got := ClampAdjustment(tc.in); got != tc.want {
			t.Errorf("ClampAdjustment(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNoopAdvisor(t *testing.T) {
	a := NewNoopAdvisor()
	res, err := a.Assess(context.Background(), &Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Adjustment != 0 || res.Commentary != "" {
		t.Errorf("noop assessment = %+v, want neutral", res)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"adjustment": 5}`, `{"adjustment": 5}`},
		{"```json\n{\"adjustment\": 5}\n```", `{"adjustment": 5}`},
		{"```\n{\"adjustment\": -3}\n```", `{"adjustment": -3}`},
		{"  {\"adjustment\": 0}  ", `{"adjustment": 0}`},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	req := &Request{
		FundName: "沪深300ETF",
		Profile: &model.TechnicalProfile{
			Code:        "510300",
			Price:       3.752,
			RSI:         28.4,
			Bias20:      -6.21,
			TrendDaily:  model.TrendBull,
			TrendWeekly: model.WeeklyUp,
			QuantScore:  85,
			QuantSignal: model.SignalStrongBuy,
		},
		MarketContext: "上证指数 3050 +0.8%",
		NewsTitles:    []string{"北向资金大幅净流入", "新基建政策落地"},
	}

	prompt := buildPrompt(req)
	for _, want := range []string{"510300", "沪深300ETF", "3.752", "28.4", "85", "上证指数", "北向资金大幅净流入"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_OmitsEmptySections(t *testing.T) {
	req := &Request{
		FundName: "创业板ETF",
		Profile:  &model.TechnicalProfile{Code: "159915"},
	}
	prompt := buildPrompt(req)
	if strings.Contains(prompt, "大盘环境") || strings.Contains(prompt, "近期新闻") {
		t.Errorf("prompt should omit empty sections:\n%s", prompt)
	}
}
