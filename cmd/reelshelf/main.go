// Command reelshelf manages a personal video library index.
package main

func main() {
	Execute()
}
