package models

import (
	"bytes"
	"encoding/json"
)

// Optional хранит поле запроса и то, прислал ли его клиент.
// Декодирование не падает: при неверном типе Valid=false, и сервис
// вернёт ошибку поля вместе с остальными.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Valid bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	*o = Optional[T]{Set: true}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	o.Valid = true
	o.Value = v
	return nil
}

// Present: поле пришло, не null и нужного типа.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null && o.Valid
}
