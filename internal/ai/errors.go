package ai

import "fmt"

// ValidationError — провайдер вернул корректный JSON, нарушающий контракт
// формы (число задач, приоритеты, категории, диапазон минут).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid provider response: " + e.Reason
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ProviderError — сетевая ошибка, ошибка API или ответ без JSON.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return "task provider failed: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
