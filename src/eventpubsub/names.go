package eventpubsub

const (
	NewTradeEvent     = "NewTradeEvent"
	OrderUpdateEvent  = "OrderUpdateEvent"
	AccountSyncEvent  = "AccountSyncEvent"
	Error             = "DefaultError"
)
