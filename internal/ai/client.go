package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client — чат-клиент генеративного провайдера. Ключ передается на каждый
// вызов: он хранится в KV-хранилище и может меняться во время работы.
type Client interface {
	Chat(ctx context.Context, apiKey string, messages []Message) (string, []byte, error)
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}
