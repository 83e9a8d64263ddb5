package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди воркера уведомлений: события
// смены статуса транзакций маршрутизируются по ключу status.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "trx.notifications", RoutingKey: "status"},
	}
}
