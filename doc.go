// Package main provides the entry point for the GiftRing backend.
// It initializes and runs a web server using the Fiber framework that lets
// users create gift exchange groups, join them, draw secret giver/receiver
// assignments and share wishlists through a REST API. The application uses
// gorm for data persistence and supports mysql, postgres and sqlite engines.
package main
