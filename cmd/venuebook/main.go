// @title Venue Booking API
// @version 1.0
// @description Venue reservations, approvals, availability and attendee registration.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import "venuebooking/internal/cli"

func main() {
	cli.Execute()
}
