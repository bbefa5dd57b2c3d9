package main

import "github.com/PoJason/open-chatgpt/examples"

func main() {
	examples.Rollout()
}
