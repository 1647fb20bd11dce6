package model

// Date and clock-time layouts used for appointment slots. Slots are held as
// plain calendar strings rather than instants: the booking rule compares
// exact values, never timezones.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
