package main

import "github.com/dcode-github/property_listing_api/cli"

func main() {
	cli.Execute()
}
