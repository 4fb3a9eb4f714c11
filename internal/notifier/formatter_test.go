package notifier

import (
	"strings"
	"testing"

	"FundAdvisor/internal/model"
)

func sampleAdvice() model.Advice {
	return model.Advice{
		Code: "510300",
		Name: "沪深300ETF",
		Profile: &model.TechnicalProfile{
			Code:          "510300",
			Name:          "沪深300ETF",
			Price:         3.752,
			RSI:           28.4,
			Bias20:        -6.21,
			TrendDaily:    model.TrendBull,
			TrendWeekly:   model.WeeklyUp,
			QuantScore:    85,
			QuantSignal:   model.SignalStrongBuy,
			FinalScore:    90,
			AIAdjustment:  5,
			ValuationDesc: "明显低估（位于5年价格区间12%分位）",
			QuantReasons:  []string{"周线站上20周均线 +40", "RSI超卖(28) +40"},
		},
		Decision: model.DecisionResult{Amount: 1300, Label: model.LabelBuy},
		Position: model.Position{Code: "510300", Shares: 150, Cost: 1.3333, HeldDays: 12},
		History: []model.TradeRecord{
			{Date: "2026-08-28", Price: 3.701, Side: model.SideBuy, Amount: 500},
		},
	}
}

func TestFormatSubject(t *testing.T) {
	advices := []model.Advice{
		{Decision: model.DecisionResult{Amount: 500, Label: model.LabelBuy}},
		{Decision: model.DecisionResult{IsSell: true, SellValue: 200, Label: model.LabelSell}},
		{Decision: model.DecisionResult{Label: model.LabelHold}},
		{Decision: model.DecisionResult{Label: model.LabelHold}},
	}

	subject := FormatSubject(advices)
	for _, want := range []string{"买入1", "卖出1", "观望2"} {
		if !strings.Contains(subject, want) {
			t.Errorf("subject missing %q: %s", want, subject)
		}
	}
}

func TestFormatReport(t *testing.T) {
	advices := []model.Advice{sampleAdvice()}
	failures := []model.CycleFailure{{Code: "159915", Name: "创业板ETF", Reason: "fetch daily bars: http 429"}}

	html := FormatReport(advices, failures, "上证指数 3050 +0.8%")

	wants := []string{
		"沪深300ETF", "510300", "买入 ¥1300",
		"技术评分 <b>85</b>", "综合评分 <b>90</b>", "情绪修正 +5",
		"明显低估", "RSI超卖(28) +40",
		"150.00份", "成本 1.3333", "已持有 12天",
		"2026-08-28", "+500",
		"上证指数 3050 +0.8%",
		"本轮跳过", "创业板ETF", "http 429",
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestFormatReport_SellAndHoldActions(t *testing.T) {
	sell := sampleAdvice()
	sell.Decision = model.DecisionResult{IsSell: true, SellValue: 562.8, Label: model.LabelSell}
	hold := sampleAdvice()
	hold.Decision = model.DecisionResult{Label: model.LabelHold}
	hold.Position = model.Position{}
	hold.History = nil

	html := FormatReport([]model.Advice{sell, hold}, nil, "")
	if !strings.Contains(html, "卖出 ¥563") {
		t.Error("report missing rounded sell action")
	}
	if !strings.Contains(html, "观望</p>") {
		t.Error("report missing hold action")
	}
	if strings.Contains(html, "大盘环境") {
		t.Error("empty market context should be omitted")
	}
}

func TestEscapeHTML(t *testing.T) {
	got := escapeHTML(`<em>A&B "quoted"</em>`)
	want := `&lt;em&gt;A&amp;B &quot;quoted&quot;&lt;/em&gt;`
	if got != want {
		t.Errorf("escapeHTML = %q, want %q", got, want)
	}
}

func TestSMTPConfigEnabled(t *testing.T) {
	var cfg SMTPConfig
	if cfg.Enabled() {
		t.Error("empty config should be disabled")
	}
	cfg = SMTPConfig{Server: "smtp.example.com", Port: 465, From: "a@example.com", To: "b@example.com"}
	if !cfg.Enabled() {
		t.Error("complete config should be enabled")
	}
}
