package main

import "learnweave/internal/server"

func main() {
	server.StartGinServer()
}
