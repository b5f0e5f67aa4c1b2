// RentEase API: аренда жилья для студентов, бронирование просмотров,
// верификация агентов и уведомления.
package main

import "rentease_backend/internal/app"

func main() {
	app.Run()
}
