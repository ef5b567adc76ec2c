package main

import "craftlink_backend/internal/app"

func main() {
	app.Run()
}
