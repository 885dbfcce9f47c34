// Command trackerctl holds operator tasks for the practice tracker: minting
// development tokens, applying the schema and printing a user's dashboard.
package main

func main() {
	Execute()
}
