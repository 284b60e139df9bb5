package main

import (
	"github.com/seung-gu/factset-data-collector/cmd/chartocr/cmd"
)

func main() {
	cmd.Execute()
}
