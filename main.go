package main

import "github.com/hstore/ms-go-employer-subscriptions/cmd"

func main() {
	cmd.Execute()
}
