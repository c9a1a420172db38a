package cart

import "log"

// User-facing notification texts, one per failure family.
const (
	MsgOutOfStock   = "requested quantity exceeds available stock"
	MsgAddFailed    = "could not add product"
	MsgRemoveFailed = "could not remove product"
	MsgUpdateFailed = "could not change product quantity"
)

// Notifier receives the human-readable message for every failed mutation.
// Successful mutations produce no notification.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

type logNotifier struct{}

func (logNotifier) Notify(message string) {
	log.Printf("cart: %s", message)
}
