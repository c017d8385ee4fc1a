// Package assistant связывает разбор инструкций, движок мутаций и языковую
// модель в единый текстовый интерфейс. Детерминированный разбор всегда
// первичен: модель получает только то, что не удалось распознать, и её
// ответ сам прогоняется через разбор, прежде чем что-то менять.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/signal-orders/internal/instruction"
	"github.com/vladislavdragonenkov/signal-orders/internal/llm"
	"github.com/vladislavdragonenkov/signal-orders/internal/metrics"
	"github.com/vladislavdragonenkov/signal-orders/internal/render"
	"github.com/vladislavdragonenkov/signal-orders/internal/service/mutation"
)

// Источник ответа в Reply.
const (
	SourceParser = "parser"
	SourceModel  = "model"
)

// Reply — ответ ассистента на одно сообщение.
type Reply struct {
	Text string
	// Source показывает, кто сформировал ответ: детерминированный разбор
	// или языковая модель.
	Source string
}

// Assistant обрабатывает сообщения пользователя.
type Assistant struct {
	engine   *mutation.Engine
	provider llm.Provider
	metrics  *metrics.AssistantMetrics
	logger   *log.Entry
}

// Option настраивает Assistant.
type Option func(*Assistant)

// WithMetrics подключает метрики ассистента.
func WithMetrics(m *metrics.AssistantMetrics) Option {
	return func(a *Assistant) { a.metrics = m }
}

// New создаёт ассистента.
func New(engine *mutation.Engine, provider llm.Provider, opts ...Option) *Assistant {
	a := &Assistant{
		engine:   engine,
		provider: provider,
		logger:   log.WithField("component", "assistant"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle обрабатывает одно сообщение и возвращает текст ответа. Ошибки
// домена превращаются в понятные сообщения и не возвращаются наружу.
func (a *Assistant) Handle(ctx context.Context, message string) Reply {
	if a.metrics != nil {
		a.metrics.RecordRequestStarted()
		defer a.metrics.RecordRequestFinished()
	}

	req := instruction.Parse(message)
	if a.metrics != nil {
		a.metrics.RecordInstruction(string(req.Kind))
	}

	a.logger.WithFields(log.Fields{
		"kind":     req.Kind,
		"order_id": req.OrderID,
	}).Debug("instruction parsed")

	if req.Kind != instruction.KindUnrecognized {
		return Reply{Text: a.execute(ctx, req), Source: SourceParser}
	}

	// Частично распознанная инструкция: уточняющий вопрос точнее, чем
	// ответ модели.
	if req.Clarification != "" {
		return Reply{Text: req.Clarification, Source: SourceParser}
	}

	return a.delegate(ctx, message)
}

// delegate отправляет сообщение модели и пытается исполнить её ответ как
// инструкцию. Неисполнимый ответ возвращается пользователю как есть.
func (a *Assistant) delegate(ctx context.Context, message string) Reply {
	if a.metrics != nil {
		a.metrics.RecordLLMFallback()
	}

	started := time.Now()
	response, err := a.provider.Generate(ctx, a.buildPrompt(ctx, message))
	if a.metrics != nil {
		a.metrics.RecordLLMDuration(time.Since(started))
	}
	if err != nil {
		a.logger.WithError(err).Warn("model request failed")
		return Reply{
			Text: "I could not understand that request. " +
				"Try something like: \"change item-001 to 30 units in order 15053222\".",
			Source: SourceParser,
		}
	}

	parsed := instruction.Parse(response)
	if parsed.Kind == instruction.KindModify || parsed.Kind == instruction.KindGetOrder {
		a.logger.WithField("kind", parsed.Kind).Info("executing instruction recovered by model")
		return Reply{Text: a.execute(ctx, parsed), Source: SourceModel}
	}

	return Reply{Text: response, Source: SourceModel}
}

func (a *Assistant) execute(ctx context.Context, req instruction.Request) string {
	switch req.Kind {
	case instruction.KindHelp:
		return render.Help(a.orderIDs(ctx))

	case instruction.KindListOrders:
		orders, err := a.engine.List(ctx)
		if err != nil {
			return render.Failure(err)
		}
		return render.OrderList(orders)

	case instruction.KindGetOrder:
		order, err := a.engine.Get(ctx, req.OrderID)
		if err != nil {
			return render.Failure(err)
		}
		return render.Order(order)

	case instruction.KindModify:
		result, err := a.engine.Modify(ctx, mutation.ModifyRequest{
			OrderID:   req.OrderID,
			Reference: req.Reference,
			Op:        mutation.Operation(req.Op),
			Quantity:  req.Quantity,
			Additive:  req.Additive,
		})
		if err != nil {
			return render.Failure(err)
		}
		if result.Op == mutation.OpRemoveItem {
			return render.RemoveSuccess(result.Order, result.Item)
		}
		return render.UpdateSuccess(result.Order, result.Item, result.OldQuantity)
	}

	return render.Failure(fmt.Errorf("unexpected instruction kind %s", req.Kind))
}

// buildPrompt дополняет сообщение списком доступных заказов, чтобы модель
// могла назвать конкретный id.
func (a *Assistant) buildPrompt(ctx context.Context, message string) string {
	ids := a.orderIDs(ctx)
	if len(ids) == 0 {
		return message
	}
	return message + "\n\nAvailable order IDs: " + strings.Join(ids, ", ")
}

func (a *Assistant) orderIDs(ctx context.Context) []string {
	orders, err := a.engine.List(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("failed to list orders for prompt context")
		return nil
	}
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
