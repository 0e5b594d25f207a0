// Command chatform runs the guided request wizard in the terminal and posts
// each finished request to the chatform server.
package main

func main() {
	execute()
}
