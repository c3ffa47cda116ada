package handlers

// HandlerBundle groups the handlers the route registrar wires up.
type HandlerBundle struct {
	Booking *BookingHandler
	Catalog *CatalogHandler
	Payment *PaymentHandler
}
