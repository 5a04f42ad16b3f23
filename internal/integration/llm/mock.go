package llm

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
)

// MockConnector is a canned generative backend used when ENABLE_MOCKS is set.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Generate(ctx context.Context, prompt string) (*entity.Generation, error) {
	ctxzap.Info(ctx, "[MOCK] generating recommendation via LLM")

	answer := `1. Resumo da situação financeira
Sua empresa apresenta caixa saudável, com receitas consistentemente acima das despesas.

2. Pontos de atenção
Os pagamentos a fornecedores concentram-se no início do mês, o que aperta a liquidez de curto prazo.

3. Recomendações práticas
Considere aplicar o saldo ocioso em um investimento automático de curto prazo e renegociar prazos com fornecedores para distribuir as saídas.

4. Justificativa baseada nos dados
A recomendação decorre do fluxo de caixa líquido positivo e da distribuição por categoria das suas transações recentes.`

	gen := &entity.Generation{
		Content: answer,
		Usage: entity.TokenUsage{
			PromptTokens:     len(prompt) / 4,
			CompletionTokens: len(answer) / 4,
			TotalTokens:      (len(prompt) + len(answer)) / 4,
		},
	}

	ctxzap.Info(ctx, "[MOCK] recommendation generated", zap.Int("result_length", len(gen.Content)))
	return gen, nil
}
