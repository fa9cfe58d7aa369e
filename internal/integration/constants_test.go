package integration_test

const (
	// Catalog fixture IDs, assigned by seedCatalog in insertion order.
	TestMovieID    = 1
	TestHallID     = 1
	TestShowtimeID = 1

	TestMovieTitle = "Interstellar"
	TestHallName   = "Hall A"

	// Customer details used across booking flows
	TestCustomerName  = "John Doe"
	TestCustomerPhone = "+15550100200"
	TestCustomerEmail = "john.doe@example.com"

	TestWebhookSecret = "whsec_integration_test_secret"
)
