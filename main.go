package main

import "courseChat/cmd/app"

func main() {
	app.GetApp().LetsGo()
}
