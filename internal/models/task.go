package models

import "time"

// Типы и статусы заданий каталога.
const (
	TaskTypeSubmit = "submit"
	TaskTypeWatch  = "watch"

	TaskActive   = "active"
	TaskInactive = "inactive"
)

// Task — задание каталога, управляется администратором и доступно
// пользователям только на чтение. Доступность задания для пользователя
// выводится из отсутствия его неотклонённой транзакции категории task.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Image       string    `json:"image,omitempty"`
	Reward      int64     `json:"reward"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// DummyTask используется для приёма данных задания из JSON-запроса
// администратора перед конвертацией в Task.
type DummyTask struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"required"`
	Link        string `json:"link" validate:"required,url"`
	Image       string `json:"image" validate:"omitempty,url"`
	Reward      int64  `json:"reward" validate:"required,gt=0"`
	Type        string `json:"type" validate:"required,oneof=submit watch"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}
