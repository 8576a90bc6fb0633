package repository

import "errors"

// Сигнальные ошибки слоя хранения. Сервисный слой переводит их
// в типизированные ошибки ядра с пользовательскими сообщениями.
var (
	ErrSlotNotFound    = errors.New("time slot not found")
	ErrSlotOverlap     = errors.New("time slot overlaps an existing slot")
	ErrSlotInPast      = errors.New("time slot is in the past")
	ErrSlotTaken       = errors.New("time slot already has an active booking")
	ErrSlotHasBookings = errors.New("time slot has blocking bookings")

	ErrBookingStateChanged = errors.New("booking status changed concurrently")
)
