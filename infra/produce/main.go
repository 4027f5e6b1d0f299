package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	ItemService *ItemService
}

func InitProduce(channel *amqp.Channel) *Produce {
	itemService := InitItemService(channel)
	if itemService == nil {
		panic("Failed to initialize Item service")
	}

	return &Produce{
		ItemService: itemService,
	}
}
