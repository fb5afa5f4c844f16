// Command reelcat identifies the media files of library roots, enriches
// them from metadata providers and records them in a SQLite catalog.
package main

func main() {
	Execute()
}
