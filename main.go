package main

import "github.com/KaramelBytes/sales-analyzer/cmd"

func main() {
	cmd.Execute()
}
