package intake

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

const (
	replyGreeting        = "Привет! Я бот для оформления заказов\nВведите пожалуйста ваше имя"
	replyNoSession       = "Нажмите команду /start, чтобы оформить новый заказ."
	replyAskProduct      = "Введите название товара, который вы хотите заказать:"
	replyAskQuantity     = "Введите количество:"
	replyBadQuantity     = "Количество должно быть в числовом виде:"
	replyAskPrice        = "Введите цену товара:"
	replyBadPrice        = "Цена должна быть в числовом формате"
	replyCreateFailed    = "Ошибка при создании заказа"
	replyCreatedTemplate = "Спасибо, заказ создан! ID вашего заказа: %d"
)

// Form walks one conversation through the four order fields and submits a
// single create-order call at the end.
type Form struct {
	sessions *SessionStore
	api      *APIClient
	logger   *zap.Logger
}

func NewForm(sessions *SessionStore, api *APIClient, logger *zap.Logger) *Form {
	return &Form{
		sessions: sessions,
		api:      api,
		logger:   logger,
	}
}

// HandleStart begins a new form, dropping any half-filled one for this chat.
func (f *Form) HandleStart(chatID int64) string {
	f.sessions.Start(chatID)
	return replyGreeting
}

// HandleText consumes one conversational turn and returns the reply. Invalid
// numeric input re-prompts without advancing. Whatever the create-order call
// returns, the session is gone afterwards; a failed order means starting over.
func (f *Form) HandleText(ctx context.Context, chatID int64, text string) string {
	session, ok := f.sessions.Get(chatID)
	if !ok {
		return replyNoSession
	}

	switch session.Step {
	case StepCustomer:
		session.Customer = text
		session.Step = StepProduct
		f.sessions.Touch(chatID)
		return replyAskProduct

	case StepProduct:
		session.Product = text
		session.Step = StepQuantity
		f.sessions.Touch(chatID)
		return replyAskQuantity

	case StepQuantity:
		quantity, err := strconv.Atoi(text)
		if err != nil || quantity < 0 {
			return replyBadQuantity
		}
		session.Quantity = quantity
		session.Step = StepPrice
		f.sessions.Touch(chatID)
		return replyAskPrice

	case StepPrice:
		price, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return replyBadPrice
		}
		defer f.sessions.Delete(chatID)

		order, err := f.api.CreateOrder(ctx, CreateOrderRequest{
			Customer: session.Customer,
			Product:  session.Product,
			Quantity: session.Quantity,
			Price:    price,
		})
		if err != nil {
			f.logger.Error("create order call failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return replyCreateFailed
		}

		f.logger.Info("order submitted",
			zap.Int64("chat_id", chatID),
			zap.Int64("order_id", order.ID))
		return fmt.Sprintf(replyCreatedTemplate, order.ID)
	}

	return replyNoSession
}
