package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestForm(t *testing.T, handler http.HandlerFunc) (*Form, *SessionStore) {
	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)

	sessions := NewSessionStore(time.Minute, zap.NewNop())
	form := NewForm(sessions, NewAPIClient(api.URL), zap.NewNop())
	return form, sessions
}

func TestForm_HappyPath(t *testing.T) {
	ctx := context.Background()
	const chatID = int64(42)

	var received CreateOrderRequest
	calls := 0

	form, sessions := newTestForm(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":7,"customer":"Ann","product":"Pen","quantity":2,"price":1.5,"status":"новый"}`)
	})

	assert.Equal(t, replyGreeting, form.HandleStart(chatID))
	assert.Equal(t, replyAskProduct, form.HandleText(ctx, chatID, "Ann"))
	assert.Equal(t, replyAskQuantity, form.HandleText(ctx, chatID, "Pen"))
	assert.Equal(t, replyAskPrice, form.HandleText(ctx, chatID, "2"))

	reply := form.HandleText(ctx, chatID, "1.5")
	assert.Equal(t, "Спасибо, заказ создан! ID вашего заказа: 7", reply)

	assert.Equal(t, 1, calls)
	assert.Equal(t, CreateOrderRequest{Customer: "Ann", Product: "Pen", Quantity: 2, Price: 1.5}, received)

	// conversation is over, state is gone
	_, ok := sessions.Get(chatID)
	assert.False(t, ok)
	assert.Equal(t, replyNoSession, form.HandleText(ctx, chatID, "hello"))
}

func TestForm_InvalidNumericInputReprompts(t *testing.T) {
	ctx := context.Background()
	const chatID = int64(42)

	form, _ := newTestForm(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("api must not be called")
	})

	form.HandleStart(chatID)
	form.HandleText(ctx, chatID, "Ann")
	form.HandleText(ctx, chatID, "Pen")

	// quantity must be an integer, the step does not advance
	assert.Equal(t, replyBadQuantity, form.HandleText(ctx, chatID, "two"))
	assert.Equal(t, replyBadQuantity, form.HandleText(ctx, chatID, "-1"))
	assert.Equal(t, replyAskPrice, form.HandleText(ctx, chatID, "2"))

	// same for price
	assert.Equal(t, replyBadPrice, form.HandleText(ctx, chatID, "cheap"))
}

func TestForm_APIFailureEndsConversation(t *testing.T) {
	ctx := context.Background()
	const chatID = int64(42)

	form, sessions := newTestForm(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database error", http.StatusInternalServerError)
	})

	form.HandleStart(chatID)
	form.HandleText(ctx, chatID, "Ann")
	form.HandleText(ctx, chatID, "Pen")
	form.HandleText(ctx, chatID, "2")

	assert.Equal(t, replyCreateFailed, form.HandleText(ctx, chatID, "1.5"))

	// failure also discards the form, the user starts over
	_, ok := sessions.Get(chatID)
	assert.False(t, ok)
	assert.Equal(t, replyNoSession, form.HandleText(ctx, chatID, "1.5"))
}

func TestForm_TextWithoutSession(t *testing.T) {
	ctx := context.Background()

	form, _ := newTestForm(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("api must not be called")
	})

	assert.Equal(t, replyNoSession, form.HandleText(ctx, 1, "Ann"))
}

func TestForm_StartRestartsForm(t *testing.T) {
	ctx := context.Background()
	const chatID = int64(42)

	form, _ := newTestForm(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("api must not be called")
	})

	form.HandleStart(chatID)
	form.HandleText(ctx, chatID, "Ann")
	form.HandleText(ctx, chatID, "Pen")

	// /start mid-form drops collected fields and begins again
	assert.Equal(t, replyGreeting, form.HandleStart(chatID))
	assert.Equal(t, replyAskProduct, form.HandleText(ctx, chatID, "Bob"))
}
