package notifier

import (
	"fmt"
	"strings"
	"time"

	"FundAdvisor/internal/model"
)

// FormatSubject builds the mail subject line for one cycle.
func FormatSubject(advices []model.Advice) string {
	buys, sells := 0, 0
	for _, a := range advices {
		switch {
		case a.Decision.IsSell:
			sells++
		case a.Decision.Amount > 0:
			buys++
		}
	}
	return fmt.Sprintf("基金投资建议 %s | 买入%d 卖出%d 观望%d",
		time.Now().Format("2006-01-02"), buys, sells, len(advices)-buys-sells)
}

// FormatReport renders the full advisory cycle as an HTML mail body.
// Advices are expected pre-sorted by final score, best first.
func FormatReport(advices []model.Advice, failures []model.CycleFailure, marketContext string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><title>基金投资建议</title></head><body style="font-family: sans-serif;">`)
	b.WriteString(fmt.Sprintf("<h2>📊 基金投资建议 | %s</h2>", time.Now().Format("2006-01-02")))
	if marketContext != "" {
		b.WriteString(fmt.Sprintf("<p>大盘环境: %s</p>", escapeHTML(marketContext)))
	}

	for _, a := range advices {
		writeFundCard(&b, &a)
	}

	if len(failures) > 0 {
		b.WriteString(`<h3>⚠️ 本轮跳过</h3><ul>`)
		for _, f := range failures {
			b.WriteString(fmt.Sprintf("<li>%s (%s): %s</li>",
				escapeHTML(f.Name), escapeHTML(f.Code), escapeHTML(f.Reason)))
		}
		b.WriteString("</ul>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func writeFundCard(b *strings.Builder, a *model.Advice) {
	p := a.Profile
	color := "#888"
	switch a.Decision.Label {
	case model.LabelBuy:
		color = "#c0392b"
	case model.LabelSell:
		color = "#27ae60"
	}

	b.WriteString(`<div style="border: 1px solid #ddd; border-radius: 6px; padding: 12px; margin: 12px 0;">`)
	b.WriteString(fmt.Sprintf("<h3>%s (%s) — <span style=\"color: %s;\">%s</span></h3>",
		escapeHTML(a.Name), escapeHTML(a.Code), color, a.Decision.Label))

	b.WriteString(fmt.Sprintf("<p>现价 %.3f | RSI %.1f | 20日乖离 %+.2f%% | 日线 %s | 周线 %s</p>",
		p.Price, p.RSI, p.Bias20, p.TrendDaily, p.TrendWeekly))
	b.WriteString(fmt.Sprintf("<p>技术评分 <b>%d</b> (%s) | 情绪修正 %+d | 综合评分 <b>%d</b><br>%s</p>",
		p.QuantScore, p.QuantSignal, p.AIAdjustment, p.FinalScore, escapeHTML(p.ValuationDesc)))

	if len(p.QuantReasons) > 0 {
		b.WriteString("<ul>")
		for _, r := range p.QuantReasons {
			b.WriteString(fmt.Sprintf("<li>%s</li>", escapeHTML(r)))
		}
		b.WriteString("</ul>")
	}

	switch {
	case a.Decision.IsSell:
		b.WriteString(fmt.Sprintf("<p><b>建议操作:</b> 卖出 ¥%.0f</p>", a.Decision.SellValue))
	case a.Decision.Amount > 0:
		b.WriteString(fmt.Sprintf("<p><b>建议操作:</b> 买入 ¥%d</p>", a.Decision.Amount))
	default:
		b.WriteString("<p><b>建议操作:</b> 观望</p>")
	}

	if a.Position.Shares > 0 {
		b.WriteString(fmt.Sprintf("<p>当前持仓: %.2f份 | 成本 %.4f | 已持有 %d天</p>",
			a.Position.Shares, a.Position.Cost, a.Position.HeldDays))
	}

	if a.Narrative != "" {
		b.WriteString(fmt.Sprintf("<p>💬 %s</p>", escapeHTML(a.Narrative)))
	}

	if len(a.History) > 0 {
		b.WriteString(`<table border="1" cellspacing="0" cellpadding="4" style="border-collapse: collapse; font-size: 12px;">`)
		b.WriteString("<thead><tr><th>日期</th><th>方向</th><th>价格</th><th>金额</th></tr></thead><tbody>")
		for _, t := range a.History {
			b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%.3f</td><td>%+d</td></tr>",
				t.Date, t.Side, t.Price, t.Amount))
		}
		b.WriteString("</tbody></table>")
	}

	b.WriteString("</div>")
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
