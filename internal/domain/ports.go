package domain

import "context"

// Storage описывает требования к хранилищу коллекции заказов.
// Коллекция загружается и сохраняется целиком: один запрос — одна
// транзакция load → mutate → save, last-writer-wins по всей коллекции.
type Storage interface {
	// Load возвращает текущую коллекцию или ErrStorageUnavailable,
	// если хранилище недоступно либо документ повреждён. Молчаливый
	// откат к пустой коллекции недопустим.
	Load(ctx context.Context) ([]Order, error)
	// Save атомарно (с точки зрения читателя) перезаписывает всю
	// коллекцию. Любая ошибка ввода-вывода — ErrStorageWriteFailed.
	Save(ctx context.Context, orders []Order) error
}

// EventPublisher публикует события об успешных мутациях заказов.
// Публикация необязательна и не влияет на результат мутации.
type EventPublisher interface {
	Publish(topic, key string, event any) error
}
