package agent

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
)

const topCategoryCount = 5

// Analyzer computes deterministic financial insights from the customer's
// transactions. No model call is involved; the summary it produces feeds the
// synthesizer prompt verbatim.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Analyze(ctx context.Context, state entity.AgentState) entity.AnalysisDelta {
	summary := "No transaction data available."
	if len(state.Transactions) > 0 {
		summary = computeAnalysis(state.Transactions)
	}

	ctxzap.Info(ctx, "financials analyzed",
		zap.String("customer_id", state.CustomerID),
		zap.Int("transactions", len(state.Transactions)),
	)

	return entity.AnalysisDelta{
		ToolResults:   map[string]string{entity.ToolResultFinancialAnalysis: summary},
		ToolsExecuted: []string{entity.ToolFinancialAnalysis},
	}
}

func computeAnalysis(transactions []entity.Transaction) string {
	var totalIncome, totalExpenses float64
	for _, t := range transactions {
		if t.Amount > 0 {
			totalIncome += t.Amount
		} else {
			totalExpenses += -t.Amount
		}
	}
	netCashflow := totalIncome - totalExpenses

	// Volume per category, keeping first-seen order for tie-breaking.
	volumes := make(map[string]float64)
	var order []string
	for _, t := range transactions {
		cat := t.Category
		if cat == "" {
			cat = "uncategorized"
		}
		if _, seen := volumes[cat]; !seen {
			order = append(order, cat)
		}
		if t.Amount < 0 {
			volumes[cat] += -t.Amount
		} else {
			volumes[cat] += t.Amount
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return volumes[order[i]] > volumes[order[j]] })
	if len(order) > topCategoryCount {
		order = order[:topCategoryCount]
	}

	lines := []string{
		"📊 Resumo Financeiro:",
		fmt.Sprintf("  • Receita total: R$%s", formatAmount(totalIncome)),
		fmt.Sprintf("  • Despesas totais: R$%s", formatAmount(totalExpenses)),
		fmt.Sprintf("  • Fluxo de caixa líquido: R$%s", formatAmount(netCashflow)),
		fmt.Sprintf("  • Número de transações: %d", len(transactions)),
		"",
		"📂 Top categorias por volume:",
	}

	for _, cat := range order {
		lines = append(lines, fmt.Sprintf("  • %s: R$%s", cat, formatAmount(volumes[cat])))
	}

	if netCashflow > 0 {
		lines = append(lines, "\n✅ Fluxo de caixa positivo — empresa saudável financeiramente.")
	} else {
		lines = append(lines, "\n⚠️ Fluxo de caixa negativo — atenção ao capital de giro.")
	}

	if totalIncome > 0 {
		expenseRatio := totalExpenses / totalIncome
		lines = append(lines, fmt.Sprintf("  • Razão despesas/receita: %.1f%%", expenseRatio*100))
	}

	return strings.Join(lines, "\n")
}

// formatAmount renders a monetary value with thousands separators and two
// decimal places, e.g. 1234567.8 as "1,234,567.80".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)

	return b.String()
}
